package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tickwake/internal/platform"
)

// CalibrationReport holds the measured clock parameters.
type CalibrationReport struct {
	TicksPerSec int64   `json:"ticks_per_sec"`
	NSPerTick   float64 `json:"ns_per_tick"`
	SampleMS    int64   `json:"sample_ms"`
	ObservedNS  int64   `json:"observed_ns"`
}

// NewCalibrateCommand creates the calibrate command.
func NewCalibrateCommand(rootOpts *RootOptions) *cobra.Command {
	var sampleMS int64

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Report tick source frequency and conversion factor",
		Long: `Report the system tick source frequency, the derived
nanoseconds-per-tick conversion factor, and the elapsed nanoseconds the
clock observes across a wall-clock sample.

Example:
  tickwake calibrate
  tickwake calibrate --sample-ms 250 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate(rootOpts, sampleMS, cmd)
		},
	}

	cmd.Flags().Int64Var(&sampleMS, "sample-ms", 100, "wall-clock sample duration in milliseconds")

	return cmd
}

func runCalibrate(opts *RootOptions, sampleMS int64, cmd *cobra.Command) error {
	if sampleMS < 0 {
		return NewExitError(ExitCommandError, "sample duration must be non-negative")
	}

	p := platform.New(platform.NewSystemTicks())
	ticksPerSec, nsPerTick := p.Calibration()

	before := p.Now()
	time.Sleep(time.Duration(sampleMS) * time.Millisecond)
	after := p.Now()

	report := CalibrationReport{
		TicksPerSec: ticksPerSec,
		NSPerTick:   nsPerTick,
		SampleMS:    sampleMS,
		ObservedNS:  int64(after.Sub(before)),
	}

	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return f.Success(report)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Ticks per second: %d\n", report.TicksPerSec)
	fmt.Fprintf(w, "ns per tick:      %g\n", report.NSPerTick)
	fmt.Fprintf(w, "Sample:           %d ms wall clock, %d ns observed\n", report.SampleMS, report.ObservedNS)
	return nil
}
