// Package harness drives golden-output validation of model serving
// configurations: a normalization/validation/initialization pipeline and a
// directory-driven runner that judges pipeline output against captured
// expected files.
package harness

import (
	"path/filepath"

	"github.com/agilira/go-errors"

	"github.com/falcon/servingcheck/internal/normalizer"
	"github.com/falcon/servingcheck/internal/platform"
	"github.com/falcon/servingcheck/internal/schema"
	"github.com/falcon/servingcheck/internal/storage"
)

// Pipeline normalizes, validates, and initializes one model directory.
type Pipeline struct {
	Store storage.Backend
}

// ValidateInit runs the full pipeline for one model directory and returns
// the canonical render of the resulting configuration. The first failing
// stage aborts; the initializer is never invoked after a normalization or
// validation failure. The platform registry is rebuilt on every call so a
// run can never observe stale adapter defaults.
func (p Pipeline) ValidateInit(modelPath string, autofill bool, init platform.InitFunc) (string, error) {
	registry := platform.NewRegistry()

	cfg, err := normalizer.Service{Store: p.Store}.Normalize(modelPath, registry, autofill)
	if err != nil {
		return "", errors.Wrap(err, ErrCodeNormalization, "model configuration normalization failed").
			WithContext("model_path", modelPath)
	}

	if err := schema.Validate(cfg, ""); err != nil {
		return "", errors.Wrap(err, ErrCodeValidation, "model configuration validation failed").
			WithContext("model_path", modelPath)
	}

	// Golden fixtures always exercise version 1.
	versionPath := filepath.Join(modelPath, normalizer.DefaultVersion)
	if err := init(versionPath, cfg); err != nil {
		return "", errors.Wrap(err, ErrCodeInitialization, "bundle initialization failed").
			WithContext("version_path", versionPath)
	}

	return cfg.Render(), nil
}
