package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/spf13/cobra"

	"github.com/yairfalse/raivaus/adapters"
	_ "github.com/yairfalse/raivaus/adapters/aws" // register the aws provider
	"github.com/yairfalse/raivaus/config"
	"github.com/yairfalse/raivaus/orchestrator"
	"github.com/yairfalse/raivaus/telemetry"
	"github.com/yairfalse/raivaus/types"
)

var sweepFlags struct {
	execute     bool
	protect     string
	regions     []string
	exclude     []string
	configPath  string
	waitTimeout time.Duration
	jsonOut     bool
	yes         bool
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Discover and remove resources (preview unless --execute)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd.Context())
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepFlags.execute, "execute", false, "actually delete; default is a preview")
	sweepCmd.Flags().StringVar(&sweepFlags.protect, "protect", "", "spare resources carrying this tag, KEY=VALUE")
	sweepCmd.Flags().StringSliceVar(&sweepFlags.regions, "regions", nil, "restrict the sweep to these regions")
	sweepCmd.Flags().StringSliceVar(&sweepFlags.exclude, "exclude", nil, "resource kinds to leave out")
	sweepCmd.Flags().StringVar(&sweepFlags.configPath, "config", "", "path to a sweep config file")
	sweepCmd.Flags().DurationVar(&sweepFlags.waitTimeout, "wait-timeout", 0, "per-resource deletion confirmation timeout")
	sweepCmd.Flags().BoolVar(&sweepFlags.jsonOut, "json", false, "emit the run summary as JSON")
	sweepCmd.Flags().BoolVar(&sweepFlags.yes, "yes", false, "skip the countdown before a live sweep")
}

func runSweep(ctx context.Context) error {
	cfg, err := loadRunConfig(sweepFlags.configPath, flagOverrides{
		protect: sweepFlags.protect,
		regions: sweepFlags.regions,
		exclude: sweepFlags.exclude,
		wait:    sweepFlags.waitTimeout,
	})
	if err != nil {
		return err
	}

	opts := types.Options{
		DryRun: !sweepFlags.execute,
		Rule:   cfg.Protect,
	}

	if !opts.DryRun && !sweepFlags.yes {
		if err := confirmCountdown(ctx); err != nil {
			return err
		}
	}

	shutdownTelemetry := initTelemetry(ctx)
	defer shutdownTelemetry()

	provider, err := adapters.GetProvider(ctx, cfg.Provider, adapters.ProviderConfig{
		Regions:      cfg.Regions,
		ExcludeKinds: cfg.ExcludeKinds,
	})
	if err != nil {
		return fmt.Errorf("provider setup failed: %w", err)
	}

	orch := orchestrator.New(provider, opts)
	if cfg.WaitTimeout > 0 {
		orch = orch.WithWaitTimeout(cfg.WaitTimeout)
	}
	if metrics, err := telemetry.NewSweepMetrics(); err == nil {
		orch = orch.WithMetrics(metrics)
	}

	// oklog/run ties the sweep and the signal handler together: whichever
	// exits first cancels the other.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result *orchestrator.RunResult
	var g run.Group
	g.Add(func() error {
		var runErr error
		result, runErr = orch.Run(runCtx)
		return runErr
	}, func(error) {
		cancel()
	})
	g.Add(run.SignalHandler(runCtx, os.Interrupt, syscall.SIGTERM))

	if err := g.Run(); err != nil {
		var sig run.SignalError
		if !errors.As(err, &sig) {
			return err
		}
		// Interrupted: the orchestrator stopped issuing deletions; whatever
		// completed is still reported below.
	}

	if result == nil {
		return fmt.Errorf("sweep did not start")
	}

	if sweepFlags.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	orch.Reporter().Render(os.Stdout, opts.DryRun)
	return nil
}

// flagOverrides carries the CLI values layered over the config file.
type flagOverrides struct {
	protect string
	regions []string
	exclude []string
	wait    time.Duration
}

// loadRunConfig merges the optional config file with CLI flags. Flags win.
func loadRunConfig(path string, f flagOverrides) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(f.regions) > 0 {
		cfg.Regions = f.regions
	}
	if len(f.exclude) > 0 {
		cfg.ExcludeKinds = f.exclude
	}
	if f.wait > 0 {
		cfg.WaitTimeout = f.wait
	}
	if f.protect != "" {
		rule, err := types.ParseProtectionRule(f.protect)
		if err != nil {
			return nil, err
		}
		cfg.Protect = rule
	}

	return cfg, nil
}

// confirmCountdown gives the operator a last chance to bail before a live
// sweep. Ctrl-C during the countdown aborts cleanly.
func confirmCountdown(ctx context.Context) error {
	fmt.Println("LIVE SWEEP: resources will be deleted.")
	for i := 5; i > 0; i-- {
		fmt.Printf("starting in %d...\n", i)
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
