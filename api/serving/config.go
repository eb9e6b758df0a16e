package serving

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigFilename is the configuration file name expected inside a model directory.
const ConfigFilename = "config.yaml"

// DataType identifies the element type of a model input or output tensor.
type DataType string

const (
	TypeBool   DataType = "TYPE_BOOL"
	TypeUint8  DataType = "TYPE_UINT8"
	TypeUint16 DataType = "TYPE_UINT16"
	TypeInt8   DataType = "TYPE_INT8"
	TypeInt16  DataType = "TYPE_INT16"
	TypeInt32  DataType = "TYPE_INT32"
	TypeInt64  DataType = "TYPE_INT64"
	TypeFP16   DataType = "TYPE_FP16"
	TypeFP32   DataType = "TYPE_FP32"
	TypeString DataType = "TYPE_STRING"
)

// DataTypes enumerates every supported tensor element type in declaration order.
func DataTypes() []DataType {
	return []DataType{
		TypeBool, TypeUint8, TypeUint16, TypeInt8, TypeInt16,
		TypeInt32, TypeInt64, TypeFP16, TypeFP32, TypeString,
	}
}

// Valid reports whether d names a supported tensor element type.
func (d DataType) Valid() bool {
	for _, known := range DataTypes() {
		if d == known {
			return true
		}
	}
	return false
}

// InstanceKind identifies the processor class an instance group runs on.
type InstanceKind string

const (
	KindCPU InstanceKind = "KIND_CPU"
	KindGPU InstanceKind = "KIND_GPU"
)

// Valid reports whether k is a supported instance kind.
func (k InstanceKind) Valid() bool {
	return k == KindCPU || k == KindGPU
}

// IOSpec declares one named input or output tensor of a model.
type IOSpec struct {
	Name          string   `yaml:"name" json:"name"`
	DataType      DataType `yaml:"data_type" json:"data_type"`
	Dims          []int64  `yaml:"dims" json:"dims"`
	LabelFilename string   `yaml:"label_filename,omitempty" json:"label_filename,omitempty"`
}

// Validate enforces structural requirements on a single tensor declaration.
// A dimension of -1 declares a variable-size axis; zero is never legal.
func (s IOSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("tensor name is required")
	}
	if !s.DataType.Valid() {
		return fmt.Errorf("tensor %q has unsupported data_type %q", s.Name, s.DataType)
	}
	if len(s.Dims) == 0 {
		return fmt.Errorf("tensor %q must declare at least one dimension", s.Name)
	}
	for _, dim := range s.Dims {
		if dim == 0 || dim < -1 {
			return fmt.Errorf("tensor %q has invalid dimension %d", s.Name, dim)
		}
	}
	return nil
}

// LatestVersions selects the newest N numbered versions for serving.
type LatestVersions struct {
	NumVersions int `yaml:"num_versions" json:"num_versions"`
}

// AllVersions selects every numbered version for serving.
type AllVersions struct{}

// SpecificVersions selects an explicit list of numbered versions for serving.
type SpecificVersions struct {
	Versions []int64 `yaml:"versions" json:"versions"`
}

// VersionPolicy selects which numbered model versions are served. Exactly one
// variant must be set.
type VersionPolicy struct {
	Latest   *LatestVersions   `yaml:"latest,omitempty" json:"latest,omitempty"`
	All      *AllVersions      `yaml:"all,omitempty" json:"all,omitempty"`
	Specific *SpecificVersions `yaml:"specific,omitempty" json:"specific,omitempty"`
}

// Validate enforces the one-variant invariant.
func (p VersionPolicy) Validate() error {
	set := 0
	if p.Latest != nil {
		set++
		if p.Latest.NumVersions < 1 {
			return fmt.Errorf("version_policy latest requires num_versions >= 1")
		}
	}
	if p.All != nil {
		set++
	}
	if p.Specific != nil {
		set++
		if len(p.Specific.Versions) == 0 {
			return fmt.Errorf("version_policy specific requires at least one version")
		}
	}
	if set != 1 {
		return fmt.Errorf("version_policy must set exactly one of latest, all, specific")
	}
	return nil
}

// InstanceGroup declares how many execution instances of the model run and where.
type InstanceGroup struct {
	Name  string       `yaml:"name,omitempty" json:"name,omitempty"`
	Count int          `yaml:"count,omitempty" json:"count,omitempty"`
	Kind  InstanceKind `yaml:"kind,omitempty" json:"kind,omitempty"`
}

// DynamicBatching configures server-side request batching for a model.
type DynamicBatching struct {
	PreferredBatchSizes []int `yaml:"preferred_batch_size,omitempty" json:"preferred_batch_size,omitempty"`
	MaxQueueDelayMicros int64 `yaml:"max_queue_delay_microseconds,omitempty" json:"max_queue_delay_microseconds,omitempty"`
}

// ModelConfig is the serving configuration of one model. Field declaration
// order here is the canonical render order.
type ModelConfig struct {
	Name                 string            `yaml:"name,omitempty" json:"name,omitempty"`
	Platform             string            `yaml:"platform,omitempty" json:"platform,omitempty"`
	VersionPolicy        *VersionPolicy    `yaml:"version_policy,omitempty" json:"version_policy,omitempty"`
	MaxBatchSize         int               `yaml:"max_batch_size,omitempty" json:"max_batch_size,omitempty"`
	Input                []IOSpec          `yaml:"input,omitempty" json:"input,omitempty"`
	Output               []IOSpec          `yaml:"output,omitempty" json:"output,omitempty"`
	InstanceGroup        []InstanceGroup   `yaml:"instance_group,omitempty" json:"instance_group,omitempty"`
	DynamicBatching      *DynamicBatching  `yaml:"dynamic_batching,omitempty" json:"dynamic_batching,omitempty"`
	DefaultModelFilename string            `yaml:"default_model_filename,omitempty" json:"default_model_filename,omitempty"`
	Parameters           map[string]string `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Render produces the canonical human-readable dump of the configuration.
// Output is deterministic: fields appear in declaration order, repeated
// fields in slice order, and map entries sorted by key. Zero-valued scalar
// fields are omitted.
func (c *ModelConfig) Render() string {
	var b strings.Builder
	if c.Name != "" {
		fmt.Fprintf(&b, "name: %q\n", c.Name)
	}
	if c.Platform != "" {
		fmt.Fprintf(&b, "platform: %q\n", c.Platform)
	}
	if c.VersionPolicy != nil {
		renderVersionPolicy(&b, c.VersionPolicy)
	}
	if c.MaxBatchSize != 0 {
		fmt.Fprintf(&b, "max_batch_size: %d\n", c.MaxBatchSize)
	}
	for _, in := range c.Input {
		renderIO(&b, "input", in)
	}
	for _, out := range c.Output {
		renderIO(&b, "output", out)
	}
	for _, group := range c.InstanceGroup {
		b.WriteString("instance_group {\n")
		if group.Name != "" {
			fmt.Fprintf(&b, "  name: %q\n", group.Name)
		}
		if group.Count != 0 {
			fmt.Fprintf(&b, "  count: %d\n", group.Count)
		}
		if group.Kind != "" {
			fmt.Fprintf(&b, "  kind: %s\n", group.Kind)
		}
		b.WriteString("}\n")
	}
	if c.DynamicBatching != nil {
		b.WriteString("dynamic_batching {\n")
		for _, size := range c.DynamicBatching.PreferredBatchSizes {
			fmt.Fprintf(&b, "  preferred_batch_size: %d\n", size)
		}
		if c.DynamicBatching.MaxQueueDelayMicros != 0 {
			fmt.Fprintf(&b, "  max_queue_delay_microseconds: %d\n", c.DynamicBatching.MaxQueueDelayMicros)
		}
		b.WriteString("}\n")
	}
	if c.DefaultModelFilename != "" {
		fmt.Fprintf(&b, "default_model_filename: %q\n", c.DefaultModelFilename)
	}
	if len(c.Parameters) > 0 {
		keys := make([]string, 0, len(c.Parameters))
		for key := range c.Parameters {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			b.WriteString("parameters {\n")
			fmt.Fprintf(&b, "  key: %q\n", key)
			fmt.Fprintf(&b, "  value: %q\n", c.Parameters[key])
			b.WriteString("}\n")
		}
	}
	return b.String()
}

func renderVersionPolicy(b *strings.Builder, policy *VersionPolicy) {
	b.WriteString("version_policy {\n")
	switch {
	case policy.Latest != nil:
		b.WriteString("  latest {\n")
		fmt.Fprintf(b, "    num_versions: %d\n", policy.Latest.NumVersions)
		b.WriteString("  }\n")
	case policy.All != nil:
		b.WriteString("  all {\n  }\n")
	case policy.Specific != nil:
		b.WriteString("  specific {\n")
		for _, version := range policy.Specific.Versions {
			fmt.Fprintf(b, "    versions: %d\n", version)
		}
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
}

func renderIO(b *strings.Builder, label string, spec IOSpec) {
	fmt.Fprintf(b, "%s {\n", label)
	fmt.Fprintf(b, "  name: %q\n", spec.Name)
	fmt.Fprintf(b, "  data_type: %s\n", spec.DataType)
	for _, dim := range spec.Dims {
		fmt.Fprintf(b, "  dims: %d\n", dim)
	}
	if spec.LabelFilename != "" {
		fmt.Fprintf(b, "  label_filename: %q\n", spec.LabelFilename)
	}
	b.WriteString("}\n")
}
