package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aerstatic/aer/internal/devserver"
	"github.com/aerstatic/aer/internal/logging"
	"github.com/aerstatic/aer/internal/watcher"
)

var devAddr string

var devCmd = &cobra.Command{
	Use:     "dev",
	Aliases: []string{"serve", "d"},
	Short:   "Watch the source tree and rebuild on change",
	Long: `Run the asset pipeline once, then watch the source tree for changes,
rebuilding on a debounced batch of events (spec §5). While running, serve
the target tree over HTTP and push a live-reload notification to every
connected browser tab once a rebuild completes.

Examples:
  aer dev                     # Watch and serve the default profile
  aer dev --addr :3000        # Serve on a different address`,
	RunE: runDev,
}

func init() {
	devCmd.Flags().StringVar(&devAddr, "addr", ":8080", "address the dev server listens on")
	rootCmd.AddCommand(devCmd)
}

func runDev(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logging.New(&logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logFormat,
		Output: os.Stdout,
	})

	cfg, orch, err := setupBuild(log)
	if err != nil {
		fatal(err)
	}

	rebuild := func() error {
		assets, err := orch.Discover(baseContext(cfg))
		if err != nil {
			return fmt.Errorf("discovering source tree: %w", err)
		}
		report, err := orch.Run(ctx, assets, baseContext(cfg))
		if err != nil {
			return fmt.Errorf("running build: %w", err)
		}
		for _, e := range report.Errors {
			fmt.Fprintln(os.Stderr, "error:", e.Error())
		}
		fmt.Printf("rebuilt %q: %d written, %d unchanged, %d errors\n",
			cfg.Paths.Source, report.Written, report.SkippedIdentical, len(report.Errors))
		return nil
	}

	if err := rebuild(); err != nil {
		fatal(err)
	}

	srv := devserver.New(cfg.Paths.Target, log)

	fw, err := watcher.New(cfg.Paths.Source, watcher.DefaultDebounce, log)
	if err != nil {
		fatal(fmt.Errorf("starting watcher: %w", err))
	}
	fw.AddFilter(watcher.NoDotfileFilter)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		if err := rebuild(); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return err
		}
		srv.Reload(ctx)
		return nil
	})
	if err := fw.Start(ctx); err != nil {
		fatal(fmt.Errorf("starting watcher: %w", err))
	}
	defer fw.Stop()

	fmt.Printf("serving %q on http://localhost%s (profile %q)\n", cfg.Paths.Target, devAddr, cfg.Profile)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, devAddr) }()

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down")
		time.Sleep(100 * time.Millisecond)
		return nil
	case err := <-errCh:
		if err != nil {
			fatal(fmt.Errorf("dev server: %w", err))
		}
		return nil
	}
}
