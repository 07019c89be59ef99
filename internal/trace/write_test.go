package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tickwake/internal/platform"
	"github.com/roach88/tickwake/internal/sched"
)

func TestBeginRun_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	meta := RunMeta{RunID: "run-1", StartedNS: 0, TicksPerSec: 1_000_000, SpinThresholdNS: 1000}
	require.NoError(t, s.BeginRun(ctx, meta))
	require.NoError(t, s.BeginRun(ctx, meta), "duplicate registration is ignored")

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, runs)
}

func TestRecordAndReadBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, RunMeta{RunID: "run-1", TicksPerSec: 1_000_000, SpinThresholdNS: 1000}))

	require.NoError(t, s.RecordWake(ctx, sched.WakeRecord{
		RunID: "run-1", Seq: 1, WakeupNS: 10_000_000, ActualNS: 10_000_000, Status: platform.Completed,
	}))
	require.NoError(t, s.RecordEvent(ctx, sched.EventRecord{
		RunID: "run-1", Seq: 2, Name: "blink", TagNS: 10_000_000, Microstep: 0,
	}))
	require.NoError(t, s.RecordWake(ctx, sched.WakeRecord{
		RunID: "run-1", Seq: 3, WakeupNS: 30_000_000, ActualNS: 30_000_500, Status: platform.Interrupted,
	}))

	records, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Record{Seq: 1, Kind: "wake", TagNS: 10_000_000, Status: "completed", ActualNS: 10_000_000}, records[0])
	assert.Equal(t, Record{Seq: 2, Kind: "event", EventName: "blink", TagNS: 10_000_000}, records[1])
	assert.Equal(t, Record{Seq: 3, Kind: "wake", TagNS: 30_000_000, Status: "interrupted", ActualNS: 30_000_500}, records[2])
}

func TestReadRun_UnknownRunIsEmpty(t *testing.T) {
	s := openTestStore(t)

	records, err := s.ReadRun(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListRuns_SortedByToken(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.BeginRun(ctx, RunMeta{RunID: "b-run", TicksPerSec: 1, SpinThresholdNS: 0}))
	require.NoError(t, s.BeginRun(ctx, RunMeta{RunID: "a-run", TicksPerSec: 1, SpinThresholdNS: 0}))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-run", "b-run"}, runs)
}
