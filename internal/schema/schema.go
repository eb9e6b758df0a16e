// Package schema enforces platform schema rules on normalized model
// configurations. Every configuration is checked twice: by typed Go
// validators and by a compiled JSON Schema, so a gap in one net is caught
// by the other.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/falcon/servingcheck/api/serving"
	"github.com/falcon/servingcheck/internal/platform"
)

//go:embed schemas/model_config.schema.json
var schemaFS embed.FS

const schemaURL = "model_config.schema.json"

var (
	compileOnce    sync.Once
	compileErr     error
	baseSchema     *jsonschema.Schema
	platformSchema map[string]*jsonschema.Schema
)

func compiled() (*jsonschema.Schema, map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		raw, err := schemaFS.ReadFile("schemas/model_config.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		baseSchema, err = compiler.Compile(schemaURL)
		if err != nil {
			compileErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		platformSchema = make(map[string]*jsonschema.Schema)
		for _, name := range []string{platform.TensorRTPlan, platform.Custom} {
			refined, err := compiler.Compile(schemaURL + "#/$defs/platforms/" + name)
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", name, err)
				return
			}
			platformSchema[name] = refined
		}
	})
	return baseSchema, platformSchema, compileErr
}

// Validate checks a normalized configuration against platform schema rules.
// nameHint, when non-empty, replaces the configuration name in diagnostics.
func Validate(cfg *serving.ModelConfig, nameHint string) error {
	display := cfg.Name
	if nameHint != "" {
		display = nameHint
	}

	if err := validateTyped(cfg, display); err != nil {
		return err
	}
	return validateAgainstSchema(cfg, display)
}

func validateTyped(cfg *serving.ModelConfig, display string) error {
	if cfg.Name == "" {
		return fmt.Errorf("model %q: name is required", display)
	}
	registry := platform.NewRegistry()
	adapter, ok := registry.Lookup(cfg.Platform)
	if !ok {
		return fmt.Errorf("model %q: unknown platform %q", display, cfg.Platform)
	}
	if cfg.MaxBatchSize < 0 {
		return fmt.Errorf("model %q: max_batch_size must be non-negative", display)
	}
	if cfg.MaxBatchSize > 0 && !adapter.SupportsBatching {
		return fmt.Errorf("model %q: platform %q does not support batching", display, cfg.Platform)
	}
	if cfg.VersionPolicy != nil {
		if err := cfg.VersionPolicy.Validate(); err != nil {
			return fmt.Errorf("model %q: %w", display, err)
		}
	}
	if len(cfg.Input) == 0 {
		return fmt.Errorf("model %q: at least one input is required", display)
	}
	if len(cfg.Output) == 0 {
		return fmt.Errorf("model %q: at least one output is required", display)
	}
	for _, spec := range cfg.Input {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("model %q input: %w", display, err)
		}
		if spec.LabelFilename != "" {
			return fmt.Errorf("model %q: input %q must not declare label_filename", display, spec.Name)
		}
	}
	for _, spec := range cfg.Output {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("model %q output: %w", display, err)
		}
	}
	for _, group := range cfg.InstanceGroup {
		if group.Count < 1 {
			return fmt.Errorf("model %q: instance group %q must have count >= 1", display, group.Name)
		}
		if !group.Kind.Valid() {
			return fmt.Errorf("model %q: instance group %q has unsupported kind %q", display, group.Name, group.Kind)
		}
	}
	if cfg.DynamicBatching != nil {
		if cfg.MaxBatchSize < 1 {
			return fmt.Errorf("model %q: dynamic batching requires max_batch_size >= 1", display)
		}
		for _, size := range cfg.DynamicBatching.PreferredBatchSizes {
			if size < 1 || size > cfg.MaxBatchSize {
				return fmt.Errorf("model %q: preferred batch size %d outside (0, %d]", display, size, cfg.MaxBatchSize)
			}
		}
	}
	return nil
}

func validateAgainstSchema(cfg *serving.ModelConfig, display string) error {
	base, perPlatform, err := compiled()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("model %q: encode for schema validation: %w", display, err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("model %q: decode for schema validation: %w", display, err)
	}

	if err := base.Validate(payload); err != nil {
		return fmt.Errorf("model %q: schema violation: %w", display, err)
	}
	if refined, ok := perPlatform[cfg.Platform]; ok {
		if err := refined.Validate(payload); err != nil {
			return fmt.Errorf("model %q: %s schema violation: %w", display, cfg.Platform, err)
		}
	}
	return nil
}
