package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/tickwake/internal/config"
	"github.com/roach88/tickwake/internal/platform"
	"github.com/roach88/tickwake/internal/sched"
	"github.com/roach88/tickwake/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string // overrides trace_db from the config when set

	// TokenGenerator allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	TokenGenerator sched.TokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Run the scheduler with timers from a config file",
		Long: `Run the time-triggered scheduler with timers from a YAML config.

Each configured timer first fires at its offset, then every period
thereafter. The run ends when the configured timeout elapses, the event
queue empties, or the process receives SIGINT/SIGTERM. When a trace
database is configured, every wait and event is recorded to it.

Example:
  tickwake run ./run.yaml
  tickwake run ./run.yaml --db /tmp/trace.db --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "trace database path (overrides trace_db in config)")

	return cmd
}

func runScheduler(opts *RunOptions, configPath string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load(configPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if len(cfg.Timers) == 0 {
		return NewExitError(ExitCommandError, "config declares no timers")
	}
	slog.Info("config loaded", "path", configPath, "timers", len(cfg.Timers))

	source := platform.NewSystemTicks()
	p := platform.New(source, platform.WithSpinThreshold(cfg.SpinThreshold()))

	schedOpts := []sched.Option{sched.WithTimeout(cfg.Timeout())}
	if opts.TokenGenerator != nil {
		schedOpts = append(schedOpts, sched.WithTokenGenerator(opts.TokenGenerator))
	}

	// Open trace database (create if not exists)
	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.TraceDB
	}
	var st *trace.Store
	if dbPath != "" {
		slog.Info("opening trace database", "path", dbPath)
		st, err = trace.Open(dbPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing trace database", "error", closeErr)
			}
		}()
		schedOpts = append(schedOpts, sched.WithRecorder(st))
	}

	s := sched.New(p, schedOpts...)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	if st != nil {
		meta := trace.RunMeta{
			RunID:           s.RunID(),
			StartedNS:       int64(p.Now()),
			TicksPerSec:     source.TicksPerSec(),
			SpinThresholdNS: int64(cfg.SpinThreshold()),
		}
		if err := st.BeginRun(ctx, meta); err != nil {
			return WrapExitError(ExitCommandError, "failed to register run", err)
		}
	}

	for _, timer := range cfg.Timers {
		s.ScheduleEvery(timer.Name, timer.Offset(), timer.Period(), logTimer)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Run %s started. Press Ctrl-C to stop.\n", s.RunID())

	if err := s.Run(ctx); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return WrapExitError(ExitFailure, "scheduler error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Run %s finished.\n", s.RunID())
	return nil
}

// logTimer is the handler attached to every configured timer.
func logTimer(_ *sched.Scheduler, ev sched.Event) {
	slog.Info("timer fired",
		"name", ev.Name,
		"tag_ns", int64(ev.Tag.Time),
		"microstep", ev.Tag.Microstep)
}
