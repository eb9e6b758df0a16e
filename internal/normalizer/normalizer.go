// Package normalizer turns a raw model directory into a fully defaulted
// serving configuration. It owns the autofill heuristics; schema-rule
// enforcement lives in internal/schema.
package normalizer

import (
	"fmt"
	"path/filepath"

	"github.com/falcon/servingcheck/api/serving"
	"github.com/falcon/servingcheck/internal/platform"
	"github.com/falcon/servingcheck/internal/storage"
)

// DefaultVersion is the version directory autofill inspects. Golden fixtures
// always carry their artifacts under version 1.
const DefaultVersion = "1"

// Service resolves normalized model configurations from a model directory.
type Service struct {
	Store storage.Backend
}

// Normalize reads the model directory's configuration file when present,
// optionally derives unset fields from the version-1 artifacts, and applies
// platform defaults. The returned configuration is complete but not yet
// checked against platform schema rules.
func (s Service) Normalize(modelPath string, registry platform.Registry, autofill bool) (*serving.ModelConfig, error) {
	configPath := filepath.Join(modelPath, serving.ConfigFilename)

	cfg := &serving.ModelConfig{}
	hasConfigFile := s.Store.FileExists(configPath)
	if hasConfigFile {
		read, err := s.Store.ReadModelConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = read
	} else if !autofill {
		return nil, fmt.Errorf("model directory %s has no %s and autofill is disabled", modelPath, serving.ConfigFilename)
	}

	dirName := filepath.Base(modelPath)
	if cfg.Name != "" && cfg.Name != dirName {
		return nil, fmt.Errorf("configured name %q does not match model directory %q", cfg.Name, dirName)
	}
	cfg.Name = dirName

	if autofill {
		if err := s.autofillPlatform(modelPath, registry, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Platform == "" {
		return nil, fmt.Errorf("model %q declares no platform", cfg.Name)
	}
	adapter, ok := registry.Lookup(cfg.Platform)
	if !ok {
		return nil, fmt.Errorf("model %q declares unknown platform %q", cfg.Name, cfg.Platform)
	}

	applyDefaults(cfg, adapter)
	return cfg, nil
}

// autofillPlatform derives the platform from version-1 artifacts. An
// explicitly declared platform is kept, but a detection result that
// contradicts it is an error; detection failures are only fatal when no
// platform was declared at all.
func (s Service) autofillPlatform(modelPath string, registry platform.Registry, cfg *serving.ModelConfig) error {
	children, err := s.Store.ListChildren(filepath.Join(modelPath, DefaultVersion))
	if err != nil {
		if cfg.Platform != "" {
			return nil
		}
		return fmt.Errorf("autofill for model %q: %w", cfg.Name, err)
	}

	detected, err := registry.Detect(children)
	if err != nil {
		if cfg.Platform != "" {
			return nil
		}
		return fmt.Errorf("autofill for model %q: %w", cfg.Name, err)
	}

	if cfg.Platform != "" && cfg.Platform != detected.Name {
		return fmt.Errorf("model %q declares platform %q but version artifacts indicate %q", cfg.Name, cfg.Platform, detected.Name)
	}
	cfg.Platform = detected.Name
	return nil
}

func applyDefaults(cfg *serving.ModelConfig, adapter platform.Adapter) {
	if cfg.VersionPolicy == nil {
		cfg.VersionPolicy = &serving.VersionPolicy{Latest: &serving.LatestVersions{NumVersions: 1}}
	}
	if cfg.DefaultModelFilename == "" {
		cfg.DefaultModelFilename = adapter.DefaultModelFilename
	}
	if len(cfg.InstanceGroup) == 0 {
		cfg.InstanceGroup = []serving.InstanceGroup{{}}
	}
	for i := range cfg.InstanceGroup {
		group := &cfg.InstanceGroup[i]
		if group.Name == "" {
			group.Name = fmt.Sprintf("%s_%d", cfg.Name, i)
		}
		if group.Count < 1 {
			group.Count = 1
		}
		if group.Kind == "" {
			group.Kind = serving.KindCPU
		}
	}
}
