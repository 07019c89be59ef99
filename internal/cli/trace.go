package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tickwake/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - when empty, list runs instead
}

// TraceResult holds the trace output for one run.
type TraceResult struct {
	RunID   string         `json:"run_id"`
	Records []trace.Record `json:"records"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded runs",
		Long: `Inspect a trace database written by tickwake run.

Without --run, lists all recorded run tokens, oldest first. With --run,
prints the run's wake and event records in sequence order.

Examples:
  tickwake trace --db ./trace.db
  tickwake trace --db ./trace.db --run 01890a5d-ac96-774b-bcce-b302099a8057
  tickwake trace --db ./trace.db --run 01890a5d-ac96-774b-bcce-b302099a8057 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run token to print; omit to list runs")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		return listRuns(ctx, st, opts, cmd)
	}
	return showRun(ctx, st, opts, cmd)
}

func listRuns(ctx context.Context, st *trace.Store, opts *TraceOptions, cmd *cobra.Command) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		if runs == nil {
			runs = []string{}
		}
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return f.Success(map[string]interface{}{"runs": runs})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, id := range runs {
		fmt.Fprintln(w, id)
	}
	return nil
}

func showRun(ctx context.Context, st *trace.Store, opts *TraceOptions, cmd *cobra.Command) error {
	records, err := st.ReadRun(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	if len(records) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no records for run %s", opts.RunID))
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return f.Success(TraceResult{RunID: opts.RunID, Records: records})
	}

	fmt.Fprint(cmd.OutOrStdout(), trace.FormatRecords(records))
	return nil
}
