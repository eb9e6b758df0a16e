// Package config resolves harness settings from the environment and an
// optional configuration file.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable the harness reads, so the
// fixture root is resolved from SERVINGCHECK_TEST_ROOT.
const EnvPrefix = "SERVINGCHECK"

// Settings carries the resolved harness configuration.
type Settings struct {
	// TestRoot is the base location fixture sets are resolved under.
	TestRoot string `mapstructure:"test_root"`
	// Platform is the forced platform for the sanity fixture set.
	Platform string `mapstructure:"platform"`
	// Autofill enables field derivation for single-model validation.
	Autofill bool `mapstructure:"autofill"`
	// NoColor disables colored PASS/FAIL output.
	NoColor bool `mapstructure:"no_color"`
}

// Validate enforces the minimum a runner invocation needs.
func (s Settings) Validate() error {
	if s.TestRoot == "" {
		return fmt.Errorf("test_root is required: set %s_TEST_ROOT or the test_root key", EnvPrefix)
	}
	return nil
}

// Load resolves settings from defaults, an optional servingcheck.yaml in
// the working directory, and SERVINGCHECK_* environment variables, in
// ascending precedence.
func Load() (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetConfigName("servingcheck")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Settings{}, fmt.Errorf("read harness configuration: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode harness configuration: %w", err)
	}
	return settings, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("test_root", "")
	v.SetDefault("platform", "")
	v.SetDefault("autofill", false)
	v.SetDefault("no_color", false)
}
