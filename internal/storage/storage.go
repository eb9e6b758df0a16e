package storage

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/falcon/servingcheck/api/serving"
)

// Backend is the filesystem surface the harness depends on. Implementations
// must return child names (not paths) from ListChildren.
type Backend interface {
	ListChildren(dir string) ([]string, error)
	FileExists(path string) bool
	ReadFile(path string) ([]byte, error)
	ReadModelConfig(path string) (*serving.ModelConfig, error)
	WriteModelConfig(path string, cfg *serving.ModelConfig) error
}

// FS adapts an afero filesystem to the Backend contract.
type FS struct {
	fs afero.Fs
}

// New wraps the supplied afero filesystem.
func New(fs afero.Fs) *FS {
	return &FS{fs: fs}
}

// NewOS returns a Backend over the process filesystem.
func NewOS() *FS {
	return &FS{fs: afero.NewOsFs()}
}

// ListChildren returns the names of the immediate children of dir.
func (f *FS) ListChildren(dir string) ([]string, error) {
	entries, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// FileExists reports whether path names an existing file or directory.
func (f *FS) FileExists(path string) bool {
	_, err := f.fs.Stat(path)
	return err == nil
}

// ReadFile returns the raw contents of path.
func (f *FS) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// ReadModelConfig decodes a model configuration file. Unknown keys are
// rejected so that fixture typos surface as errors instead of silently
// dropped fields.
func (f *FS) ReadModelConfig(path string) (*serving.ModelConfig, error) {
	file, err := f.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model configuration %s: %w", path, err)
	}
	defer file.Close()

	cfg := &serving.ModelConfig{}
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode model configuration %s: %w", path, err)
	}
	return cfg, nil
}

// WriteModelConfig encodes cfg back to path, replacing any existing file.
func (f *FS) WriteModelConfig(path string, cfg *serving.ModelConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode model configuration for %s: %w", path, err)
	}
	if err := afero.WriteFile(f.fs, path, data, os.FileMode(0o644)); err != nil {
		return fmt.Errorf("write model configuration %s: %w", path, err)
	}
	return nil
}
