package platform

import (
	"fmt"
	"path/filepath"

	"github.com/falcon/servingcheck/api/serving"
	"github.com/falcon/servingcheck/internal/storage"
)

// InitFunc checks that a model version's on-disk artifacts are structurally
// compatible with its validated configuration.
type InitFunc func(versionPath string, cfg *serving.ModelConfig) error

// BundleInit returns the initializer for one platform adapter. The check is
// structural only: the configured model artifact must exist inside the
// version directory. Artifact contents are never parsed.
func BundleInit(store storage.Backend, adapter Adapter) InitFunc {
	return func(versionPath string, cfg *serving.ModelConfig) error {
		if cfg.Platform != adapter.Name {
			return fmt.Errorf("model %q declares platform %q, bundle handles %q", cfg.Name, cfg.Platform, adapter.Name)
		}
		filename := cfg.DefaultModelFilename
		if filename == "" {
			filename = adapter.DefaultModelFilename
		}
		if !store.FileExists(filepath.Join(versionPath, filename)) {
			return fmt.Errorf("version directory %s is missing model artifact %q", versionPath, filename)
		}
		if adapter.Name == Caffe2NetDef {
			initNet := "init_" + filename
			if !store.FileExists(filepath.Join(versionPath, initNet)) {
				return fmt.Errorf("version directory %s is missing init net %q", versionPath, initNet)
			}
		}
		return nil
	}
}

// Initializers returns one bundle initializer per registered platform.
func Initializers(store storage.Backend) map[string]InitFunc {
	registry := NewRegistry()
	inits := make(map[string]InitFunc, len(registry))
	for name, adapter := range registry {
		inits[name] = BundleInit(store, adapter)
	}
	return inits
}

// DispatchInit returns an initializer that routes to the bundle matching the
// configuration's declared platform. Used by the CLI, where one invocation
// can cross fixture models of different platforms.
func DispatchInit(store storage.Backend) InitFunc {
	inits := Initializers(store)
	return func(versionPath string, cfg *serving.ModelConfig) error {
		init, ok := inits[cfg.Platform]
		if !ok {
			return fmt.Errorf("no bundle initializer registered for platform %q", cfg.Platform)
		}
		return init(versionPath, cfg)
	}
}
