package observer

import (
	"fmt"
	"sync"
)

// Memory is a deterministic in-memory reporter used by tests.
type Memory struct {
	mu      sync.Mutex
	logs    []string
	results []Result
}

// NewMemory returns an empty in-memory reporter.
func NewMemory() *Memory {
	return &Memory{}
}

// Infof records an informational log line.
func (m *Memory) Infof(format string, args ...any) {
	m.append("INFO " + fmt.Sprintf(format, args...))
}

// Errorf records an error log line.
func (m *Memory) Errorf(format string, args ...any) {
	m.append("ERROR " + fmt.Sprintf(format, args...))
}

// Record appends a model result.
func (m *Memory) Record(result Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

// Logs returns a copy of all recorded log lines.
func (m *Memory) Logs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.logs))
	copy(out, m.logs)
	return out
}

// Results returns a copy of all recorded model results.
func (m *Memory) Results() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Result, len(m.results))
	copy(out, m.results)
	return out
}

// Failed counts recorded failures.
func (m *Memory) Failed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	failed := 0
	for _, result := range m.results {
		if !result.Passed {
			failed++
		}
	}
	return failed
}

func (m *Memory) append(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, line)
}
