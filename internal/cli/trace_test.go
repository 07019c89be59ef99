package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickwake/internal/platform"
	"github.com/roach88/tickwake/internal/sched"
	"github.com/roach88/tickwake/internal/trace"
)

// seedTraceDB writes a small run to a fresh database and returns its path.
func seedTraceDB(t *testing.T, runID string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.db")

	st, err := trace.Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, st.Close()) }()

	ctx := context.Background()
	require.NoError(t, st.BeginRun(ctx, trace.RunMeta{
		RunID:       runID,
		TicksPerSec: 1_000_000_000,
	}))
	require.NoError(t, st.RecordWake(ctx, sched.WakeRecord{
		RunID: runID, Seq: 1, WakeupNS: 10_000_000, ActualNS: 10_000_000,
		Status: platform.Completed,
	}))
	require.NoError(t, st.RecordEvent(ctx, sched.EventRecord{
		RunID: runID, Seq: 2, Name: "blink", TagNS: 10_000_000,
	}))
	return path
}

func TestTrace_ListRuns(t *testing.T) {
	path := seedTraceDB(t, "run-trace-list")

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"trace", "--db", path})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "run-trace-list\n", out.String())
}

func TestTrace_ListRunsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	st, err := trace.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"trace", "--db", path})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "No runs recorded.\n", out.String())
}

func TestTrace_ShowRunText(t *testing.T) {
	path := seedTraceDB(t, "run-trace-show")

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"trace", "--db", path, "--run", "run-trace-show"})

	require.NoError(t, cmd.Execute())

	want := "seq=1 kind=wake tag_ns=10000000 status=completed actual_ns=10000000\n" +
		"seq=2 kind=event name=blink tag_ns=10000000 microstep=0\n"
	assert.Equal(t, want, out.String())
}

func TestTrace_ShowRunJSON(t *testing.T) {
	path := seedTraceDB(t, "run-trace-json")

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"trace", "--db", path, "--run", "run-trace-json", "--format", "json"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-trace-json", resp.Data.RunID)
	require.Len(t, resp.Data.Records, 2)
	assert.Equal(t, "wake", resp.Data.Records[0].Kind)
	assert.Equal(t, "blink", resp.Data.Records[1].EventName)
}

func TestTrace_UnknownRun(t *testing.T) {
	path := seedTraceDB(t, "run-trace-known")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"trace", "--db", path, "--run", "no-such-run"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
