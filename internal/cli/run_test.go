package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickwake/internal/sched"
	"github.com/roach88/tickwake/internal/trace"
)

func writeRunConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// testCommand returns a bare command with buffered output for driving
// runScheduler directly.
func testCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	return cmd, &out
}

func TestRunScheduler_WritesTrace(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	cfgPath := writeRunConfig(t, `
timeout_ms: 25
timers:
  - name: blink
    offset_ms: 5
    period_ms: 10
`)

	opts := &RunOptions{
		RootOptions:    &RootOptions{Format: "text"},
		Database:       dbPath,
		TokenGenerator: sched.NewFixedGenerator("run-cli-test"),
	}
	cmd, out := testCommand()

	require.NoError(t, runScheduler(opts, cfgPath, cmd))
	assert.Contains(t, out.String(), "Run run-cli-test finished.")

	st, err := trace.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	records, err := st.ReadRun(context.Background(), "run-cli-test")
	require.NoError(t, err)

	var events int
	for _, rec := range records {
		if rec.Kind == "event" {
			events++
			assert.Equal(t, "blink", rec.EventName)
		}
	}
	assert.Equal(t, 3, events, "timer due at 5, 15, 25 ms within a 25 ms run")
}

func TestRunScheduler_MissingConfig(t *testing.T) {
	opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}
	cmd, _ := testCommand()

	err := runScheduler(opts, filepath.Join(t.TempDir(), "absent.yaml"), cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunScheduler_NoTimers(t *testing.T) {
	cfgPath := writeRunConfig(t, `
timeout_ms: 10
`)
	opts := &RunOptions{RootOptions: &RootOptions{Format: "text"}}
	cmd, _ := testCommand()

	err := runScheduler(opts, cfgPath, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunScheduler_NoTraceDatabase(t *testing.T) {
	cfgPath := writeRunConfig(t, `
timeout_ms: 5
timers:
  - name: once
    offset_ms: 2
    period_ms: 0
`)
	opts := &RunOptions{
		RootOptions:    &RootOptions{Format: "text"},
		TokenGenerator: sched.NewFixedGenerator("run-cli-notrace"),
	}
	cmd, out := testCommand()

	require.NoError(t, runScheduler(opts, cfgPath, cmd))
	assert.Contains(t, out.String(), "finished")
}
