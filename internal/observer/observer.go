// Package observer is the harness's reporting surface: structured logging
// plus a pass/fail result sink consumed by the run driver.
package observer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
)

// Result is one model's golden-comparison outcome. Expected holds the last
// non-matching candidate's content when the model failed.
type Result struct {
	Model    string
	Passed   bool
	Expected string
	Actual   string
}

// Summary aggregates results across a run.
type Summary struct {
	Total  int
	Failed int
}

// Add folds another summary into s.
func (s *Summary) Add(other Summary) {
	s.Total += other.Total
	s.Failed += other.Failed
}

// Reporter receives harness progress logs and per-model results.
type Reporter interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
	Record(result Result)
}

// Console reports to a terminal: logs through slog, results as colored
// PASS/FAIL lines. Failed models print both sides of the comparison for
// diff-by-eye inspection.
type Console struct {
	out  io.Writer
	log  *slog.Logger
	pass func(format string, args ...any) string
	fail func(format string, args ...any) string
}

// NewConsole builds a console reporter writing to out.
func NewConsole(out io.Writer, colored bool) *Console {
	pass := fmt.Sprintf
	fail := fmt.Sprintf
	if colored {
		pass = color.New(color.FgGreen).Sprintf
		fail = color.New(color.FgRed, color.Bold).Sprintf
	}
	return &Console{
		out:  out,
		log:  slog.New(slog.NewTextHandler(out, nil)),
		pass: pass,
		fail: fail,
	}
}

// Infof logs an informational message.
func (c *Console) Infof(format string, args ...any) {
	c.log.Info(fmt.Sprintf(format, args...))
}

// Errorf logs an error message.
func (c *Console) Errorf(format string, args ...any) {
	c.log.Error(fmt.Sprintf(format, args...))
}

// Record prints the model's outcome.
func (c *Console) Record(result Result) {
	if result.Passed {
		fmt.Fprintln(c.out, c.pass("PASS %s", result.Model))
		return
	}
	fmt.Fprintln(c.out, c.fail("FAIL %s", result.Model))
	fmt.Fprintf(c.out, "Expected:\n%s\n", result.Expected)
	fmt.Fprintf(c.out, "Actual:\n%s\n", result.Actual)
}

// RenderSummary formats a run summary for terminal output.
func RenderSummary(summary Summary) string {
	return fmt.Sprintf("models: total=%d passed=%d failed=%d",
		summary.Total, summary.Total-summary.Failed, summary.Failed)
}
