// Command servingcheck validates model serving configurations against
// golden fixture trees.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/falcon/servingcheck/internal/config"
	"github.com/falcon/servingcheck/internal/harness"
	"github.com/falcon/servingcheck/internal/observer"
	"github.com/falcon/servingcheck/internal/platform"
	"github.com/falcon/servingcheck/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "servingcheck",
		Short: "Golden-output validation for model serving configurations",
		Long: `servingcheck normalizes, validates, and initializes model serving
configurations and compares the canonical output against captured
expected files.`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newValidateCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		platformName string
		testRoot     string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the golden fixture sets for one platform",
		Long: `Run the sanity fixture set with autofill disabled and the platform
forced, then the autofill fixture set with no override. The platform
override rewrites fixture configuration files in place, so the fixture
tree must be exclusive to this run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			if testRoot != "" {
				settings.TestRoot = testRoot
			}
			if platformName != "" {
				settings.Platform = platformName
			}
			if err := settings.Validate(); err != nil {
				return err
			}
			if _, ok := platform.NewRegistry().Lookup(settings.Platform); !ok {
				return fmt.Errorf("unknown platform %q; known platforms: %v",
					settings.Platform, platform.NewRegistry().Names())
			}

			store := storage.NewOS()
			reporter := observer.NewConsole(cmd.OutOrStdout(), !settings.NoColor)
			runner := &harness.Runner{Store: store, Reporter: reporter, Root: settings.TestRoot}

			summary, err := runner.ValidateAll(settings.Platform, platform.DispatchInit(store))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), observer.RenderSummary(summary))
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d models failed golden comparison", summary.Failed, summary.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&platformName, "platform", "", "platform forced onto the sanity fixture set")
	cmd.Flags().StringVar(&testRoot, "test-root", "", "fixture base location (overrides SERVINGCHECK_TEST_ROOT)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var autofill bool
	cmd := &cobra.Command{
		Use:   "validate <model-directory>",
		Short: "Validate a single model directory and print its canonical configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := storage.NewOS()
			pipeline := harness.Pipeline{Store: store}

			rendered, err := pipeline.ValidateInit(args[0], autofill, platform.DispatchInit(store))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&autofill, "autofill", false, "derive unset configuration fields from version-1 artifacts")
	return cmd
}
