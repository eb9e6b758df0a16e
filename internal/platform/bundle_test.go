package platform

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/falcon/servingcheck/api/serving"
	"github.com/falcon/servingcheck/internal/storage"
)

func memStore(t *testing.T, files ...string) *storage.FS {
	t.Helper()
	mem := afero.NewMemMapFs()
	for _, file := range files {
		if err := afero.WriteFile(mem, file, []byte("artifact"), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", file, err)
		}
	}
	return storage.New(mem)
}

func TestBundleInitArtifactPresent(t *testing.T) {
	t.Parallel()

	store := memStore(t, "/models/m/1/model.graphdef")
	registry := NewRegistry()
	init := BundleInit(store, registry[TensorFlowGraphDef])

	cfg := &serving.ModelConfig{Name: "m", Platform: TensorFlowGraphDef}
	if err := init("/models/m/1", cfg); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
}

func TestBundleInitMissingArtifact(t *testing.T) {
	t.Parallel()

	store := memStore(t)
	registry := NewRegistry()
	init := BundleInit(store, registry[TensorRTPlan])

	cfg := &serving.ModelConfig{Name: "m", Platform: TensorRTPlan}
	if err := init("/models/m/1", cfg); err == nil {
		t.Fatalf("expected missing artifact error")
	}
}

func TestBundleInitHonorsConfiguredFilename(t *testing.T) {
	t.Parallel()

	store := memStore(t, "/models/m/1/renamed.plan")
	registry := NewRegistry()
	init := BundleInit(store, registry[TensorRTPlan])

	cfg := &serving.ModelConfig{Name: "m", Platform: TensorRTPlan, DefaultModelFilename: "renamed.plan"}
	if err := init("/models/m/1", cfg); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
}

func TestBundleInitPlatformMismatch(t *testing.T) {
	t.Parallel()

	store := memStore(t, "/models/m/1/model.plan")
	registry := NewRegistry()
	init := BundleInit(store, registry[TensorRTPlan])

	cfg := &serving.ModelConfig{Name: "m", Platform: TensorFlowGraphDef}
	if err := init("/models/m/1", cfg); err == nil {
		t.Fatalf("expected platform mismatch error")
	}
}

func TestNetDefRequiresInitNet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	init := BundleInit(memStore(t, "/models/m/1/model.netdef"), registry[Caffe2NetDef])
	cfg := &serving.ModelConfig{Name: "m", Platform: Caffe2NetDef}
	if err := init("/models/m/1", cfg); err == nil {
		t.Fatalf("expected missing init net error")
	}

	both := memStore(t, "/models/m/1/model.netdef", "/models/m/1/init_model.netdef")
	if err := BundleInit(both, registry[Caffe2NetDef])("/models/m/1", cfg); err != nil {
		t.Fatalf("unexpected init error with init net present: %v", err)
	}
}

func TestDispatchInitRoutesByPlatform(t *testing.T) {
	t.Parallel()

	store := memStore(t, "/models/m/1/libcustom.so")
	init := DispatchInit(store)

	if err := init("/models/m/1", &serving.ModelConfig{Name: "m", Platform: Custom}); err != nil {
		t.Fatalf("unexpected dispatch error: %v", err)
	}
	if err := init("/models/m/1", &serving.ModelConfig{Name: "m", Platform: "unknown"}); err == nil {
		t.Fatalf("expected unknown platform error")
	}
}
