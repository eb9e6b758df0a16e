package platform

import (
	"fmt"
	"sort"
)

// Known platform identifiers. A model configuration must resolve to exactly
// one of these before it can be validated or initialized.
const (
	TensorFlowGraphDef   = "tensorflow_graphdef"
	TensorFlowSavedModel = "tensorflow_savedmodel"
	Caffe2NetDef         = "caffe2_netdef"
	TensorRTPlan         = "tensorrt_plan"
	Custom               = "custom"
)

// Adapter carries the per-platform defaults normalization resolves against.
type Adapter struct {
	Name string
	// DefaultModelFilename is assumed when a configuration does not name
	// its model artifact explicitly.
	DefaultModelFilename string
	// ArtifactSignatures are version-directory entries whose presence
	// identifies this platform during autofill.
	ArtifactSignatures []string
	// SupportsBatching reports whether the backend accepts batched
	// requests; platforms without it reject max_batch_size > 0.
	SupportsBatching bool
}

// Registry maps a platform identifier to its adapter defaults. It is
// rebuilt for every validation run and read-only afterward.
type Registry map[string]Adapter

// NewRegistry returns a registry holding every known platform adapter.
func NewRegistry() Registry {
	return Registry{
		TensorFlowGraphDef: {
			Name:                 TensorFlowGraphDef,
			DefaultModelFilename: "model.graphdef",
			ArtifactSignatures:   []string{"model.graphdef"},
			SupportsBatching:     true,
		},
		TensorFlowSavedModel: {
			Name:                 TensorFlowSavedModel,
			DefaultModelFilename: "model.savedmodel",
			ArtifactSignatures:   []string{"model.savedmodel", "saved_model.pb"},
			SupportsBatching:     true,
		},
		Caffe2NetDef: {
			Name:                 Caffe2NetDef,
			DefaultModelFilename: "model.netdef",
			ArtifactSignatures:   []string{"model.netdef"},
			SupportsBatching:     true,
		},
		TensorRTPlan: {
			Name:                 TensorRTPlan,
			DefaultModelFilename: "model.plan",
			ArtifactSignatures:   []string{"model.plan"},
			SupportsBatching:     true,
		},
		Custom: {
			Name:                 Custom,
			DefaultModelFilename: "libcustom.so",
			ArtifactSignatures:   []string{"libcustom.so"},
			SupportsBatching:     false,
		},
	}
}

// Lookup resolves a platform identifier to its adapter.
func (r Registry) Lookup(name string) (Adapter, bool) {
	adapter, ok := r[name]
	return adapter, ok
}

// Names returns the registered platform identifiers in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect inspects version-directory entries and resolves the platform whose
// artifact signature they carry. Zero matches or more than one match is an
// error: autofill needs an unambiguous artifact layout.
func (r Registry) Detect(children []string) (Adapter, error) {
	present := make(map[string]struct{}, len(children))
	for _, child := range children {
		present[child] = struct{}{}
	}

	var matches []Adapter
	for _, name := range r.Names() {
		adapter := r[name]
		for _, signature := range adapter.ArtifactSignatures {
			if _, ok := present[signature]; ok {
				matches = append(matches, adapter)
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		return Adapter{}, fmt.Errorf("unable to detect platform: no recognized model artifact among %v", children)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for _, match := range matches {
			names = append(names, match.Name)
		}
		return Adapter{}, fmt.Errorf("unable to detect platform: artifacts match multiple platforms %v", names)
	}
}
