package trace

import (
	"context"
	"fmt"

	"github.com/roach88/tickwake/internal/sched"
)

// RunMeta describes a run for the runs table.
type RunMeta struct {
	RunID           string
	StartedNS       int64
	TicksPerSec     int64
	SpinThresholdNS int64
}

// BeginRun registers a run before any records are written.
// Uses ON CONFLICT(run_id) DO NOTHING so a retried registration is
// harmless.
func (s *Store) BeginRun(ctx context.Context, meta RunMeta) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_ns, ticks_per_sec, spin_threshold_ns)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`,
		meta.RunID,
		meta.StartedNS,
		meta.TicksPerSec,
		meta.SpinThresholdNS,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordWake persists one wait record. Implements sched.Recorder.
//
// Called while the scheduler holds the critical section, so this is a
// single INSERT on a warm connection and nothing more.
func (s *Store) RecordWake(ctx context.Context, rec sched.WakeRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (run_id, seq, kind, tag_ns, status, actual_ns)
		VALUES (?, ?, 'wake', ?, ?, ?)
	`,
		rec.RunID,
		rec.Seq,
		rec.WakeupNS,
		rec.Status.String(),
		rec.ActualNS,
	)
	if err != nil {
		return fmt.Errorf("record wake: %w", err)
	}
	return nil
}

// RecordEvent persists one processed-event record. Implements
// sched.Recorder.
func (s *Store) RecordEvent(ctx context.Context, rec sched.EventRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (run_id, seq, kind, event_name, tag_ns, microstep)
		VALUES (?, ?, 'event', ?, ?, ?)
	`,
		rec.RunID,
		rec.Seq,
		rec.Name,
		rec.TagNS,
		rec.Microstep,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}
