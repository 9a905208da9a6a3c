package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/config"
	"github.com/aerstatic/aer/internal/logging"
	"github.com/aerstatic/aer/internal/orchestrator"
	"github.com/aerstatic/aer/internal/processor"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Run the asset pipeline once",
	Long: `Run the asset pipeline once: discover the source tree, run every
configured processor against every asset, and write the result to the
target tree.

Examples:
  aer build                      # Build the default profile
  aer build --profile publish    # Build the publish profile
  aer build --config other.toml  # Use a different configuration file`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	log := logging.New(&logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logFormat,
		Output: os.Stdout,
	})

	cfg, orch, err := setupBuild(log)
	if err != nil {
		fatal(err)
	}

	assets, err := orch.Discover(baseContext(cfg))
	if err != nil {
		fatal(fmt.Errorf("discovering source tree: %w", err))
	}

	report, err := orch.Run(ctx, assets, baseContext(cfg))
	if err != nil {
		fatal(fmt.Errorf("running build: %w", err))
	}

	fmt.Printf("built %q in %s profile: %d written, %d unchanged, %d parts, %d errors (%s)\n",
		cfg.Paths.Source, cfg.Profile, report.Written, report.SkippedIdentical,
		report.PartsSkipped, len(report.Errors), time.Since(start).Round(time.Millisecond))

	for _, e := range report.Errors {
		fmt.Fprintln(os.Stderr, "error:", e.Error())
	}

	if report.HasErrors() {
		os.Exit(1)
	}
	return nil
}

// setupBuild loads the active profile's configuration and assembles an
// Orchestrator ready to Discover against it — the shared setup both
// `aer build` and `aer dev` perform before running a pipeline pass.
func setupBuild(log logging.Logger) (*config.Config, *orchestrator.Orchestrator, error) {
	cfg, err := config.Load(cfgFile, profile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", cfgFile, err)
	}

	parts := asset.NewPartCache()
	procs, err := processor.Build(cfg.Procs, processor.Deps{Parts: parts})
	if err != nil {
		return nil, nil, fmt.Errorf("building processor pipeline: %w", err)
	}

	return cfg, orchestrator.New(cfg, procs, parts, log), nil
}
