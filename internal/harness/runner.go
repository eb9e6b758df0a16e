package harness

import (
	"path/filepath"
	"strings"

	"github.com/agilira/go-errors"

	"github.com/falcon/servingcheck/api/serving"
	"github.com/falcon/servingcheck/internal/observer"
	"github.com/falcon/servingcheck/internal/platform"
	"github.com/falcon/servingcheck/internal/storage"
)

// GoldenPrefix marks the sibling entries of a model directory that hold
// captured expected output.
const GoldenPrefix = "expected"

// Fixture sets exercised by ValidateAll.
const (
	SanitySet   = "model_config_sanity"
	AutofillSet = "autofill_sanity"
)

// Runner drives the pipeline across a fixture tree of model directories and
// judges each model against its golden candidates. Runs are strictly
// sequential; the platform override rewrites fixture configuration files in
// place, so a fixture tree must not be shared by concurrent runs.
type Runner struct {
	Store    storage.Backend
	Reporter observer.Reporter
	// Root is the resolved fixture base location (see internal/config).
	Root string
}

// ValidateAll runs the two standard fixture sets: sanity models with
// autofill disabled and the platform forced, then autofill models with no
// override.
func (r *Runner) ValidateAll(platformName string, init platform.InitFunc) (observer.Summary, error) {
	summary, err := r.ValidateOne(SanitySet, false, platformName, init)
	if err != nil {
		return summary, err
	}
	autofill, err := r.ValidateOne(AutofillSet, true, "", init)
	summary.Add(autofill)
	return summary, err
}

// ValidateOne processes every model directory under testSetPath. Per-model
// failures are recorded through the reporter and do not stop the run; a
// directory-listing or config-rewrite failure is harness-fatal and returned
// immediately.
func (r *Runner) ValidateOne(testSetPath string, autofill bool, platformOverride string, init platform.InitFunc) (observer.Summary, error) {
	basePath := filepath.Join(r.Root, testSetPath)

	models, err := r.Store.ListChildren(basePath)
	if err != nil {
		return observer.Summary{}, errors.Wrap(err, ErrCodeDirectoryListing, "fixture base path is not listable").
			WithContext("base_path", basePath)
	}

	summary := observer.Summary{}
	pipeline := Pipeline{Store: r.Store}
	for _, modelName := range models {
		modelPath := filepath.Join(basePath, modelName)

		if platformOverride != "" {
			if err := r.applyPlatformOverride(modelPath, platformOverride); err != nil {
				return summary, err
			}
		}

		r.Reporter.Infof("testing %s", modelName)
		actual, err := pipeline.ValidateInit(modelPath, autofill, init)
		if err != nil {
			actual = err.Error()
		}

		failExpected := r.compareGoldens(modelPath, actual)
		summary.Total++
		if failExpected == "" {
			r.Reporter.Record(observer.Result{Model: modelName, Passed: true, Actual: actual})
			continue
		}
		summary.Failed++
		mismatch := errors.New(ErrCodeGoldenMismatch, "actual output does not match any golden candidate").
			WithContext("model", modelName)
		r.Reporter.Errorf("%v", mismatch)
		r.Reporter.Record(observer.Result{
			Model:    modelName,
			Passed:   false,
			Expected: failExpected,
			Actual:   actual,
		})
	}
	return summary, nil
}

// applyPlatformOverride rewrites the model's configuration file in place so
// its platform field carries the override. The mutation is deliberately
// destructive and idempotent; fixture trees are assumed exclusive to one
// run. Models without a configuration file are left untouched.
func (r *Runner) applyPlatformOverride(modelPath, platformOverride string) error {
	configPath := filepath.Join(modelPath, serving.ConfigFilename)
	if !r.Store.FileExists(configPath) {
		return nil
	}
	cfg, err := r.Store.ReadModelConfig(configPath)
	if err != nil {
		return errors.Wrap(err, ErrCodeConfigRewrite, "platform override failed reading fixture configuration").
			WithContext("config_path", configPath)
	}
	cfg.Platform = platformOverride
	if err := r.Store.WriteModelConfig(configPath, cfg); err != nil {
		return errors.Wrap(err, ErrCodeConfigRewrite, "platform override failed writing fixture configuration").
			WithContext("config_path", configPath)
	}
	return nil
}

// compareGoldens matches actual against every expected* sibling of the
// model directory and returns the content of the last non-matching
// candidate, or empty when a candidate matched or none exist. Comparison is
// truncated-prefix equality: a candidate shorter than actual is compared
// against the prefix of actual of the candidate's length, never the
// reverse.
func (r *Runner) compareGoldens(modelPath, actual string) string {
	children, err := r.Store.ListChildren(modelPath)
	if err != nil {
		// An unlistable model directory has no candidates to compare.
		return ""
	}

	failExpected := ""
	for _, child := range children {
		name := child
		// Tolerate nested-path artifacts in listings.
		if i := strings.IndexByte(name, '/'); i >= 0 {
			name = name[:i]
		}
		if !strings.HasPrefix(name, GoldenPrefix) {
			continue
		}

		expectedPath := filepath.Join(modelPath, name)
		r.Reporter.Infof("comparing with %s", expectedPath)

		raw, err := r.Store.ReadFile(expectedPath)
		if err != nil {
			r.Reporter.Errorf("skipping unreadable golden %s: %v", expectedPath, err)
			continue
		}
		expected := string(raw)

		truncated := actual
		if len(expected) < len(actual) {
			truncated = actual[:len(expected)]
		}
		if expected != truncated {
			failExpected = expected
		} else {
			failExpected = ""
			break
		}
	}
	return failExpected
}
