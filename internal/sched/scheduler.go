package sched

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/roach88/tickwake/internal/platform"
)

// WakeRecord describes one completed wait in the run loop.
type WakeRecord struct {
	RunID    string
	Seq      int64
	WakeupNS int64 // the requested wake instant
	ActualNS int64 // the instant observed after reacquiring the section
	Status   platform.Status
}

// EventRecord describes one processed event.
type EventRecord struct {
	RunID     string
	Seq       int64
	Name      string
	TagNS     int64
	Microstep uint32
}

// Recorder receives trace records from the run loop. Implemented by the
// trace store (durable) and by in-memory recorders in tests.
//
// RecordWake is called while the critical section is held; implementations
// must return quickly or they delay the producer's notify path.
type Recorder interface {
	RecordWake(ctx context.Context, rec WakeRecord) error
	RecordEvent(ctx context.Context, rec EventRecord) error
}

// Scheduler runs the time-triggered event loop on top of a Platform.
//
// Thread-safety model:
//   - Run: must be called from exactly one goroutine, once.
//   - Schedule, ScheduleEvery: safe from any goroutine.
//   - Stop: safe from any goroutine.
type Scheduler struct {
	platform *platform.Platform
	queue    *queue
	seq      *SeqCounter
	recorder Recorder
	runID    string
	timeout  platform.Interval

	stopping atomic.Bool

	mu      sync.Mutex
	current Tag // tag being (or last) processed, guarded by mu
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRecorder attaches a trace recorder. Nil (the default) disables
// tracing.
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) {
		s.recorder = r
	}
}

// WithTimeout bounds the run: the loop stops before processing any tag
// later than start+timeout. Zero (the default) runs until the queue
// empties or Stop is called.
func WithTimeout(d platform.Interval) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

// WithTokenGenerator replaces the run token source. Tests use
// FixedGenerator for deterministic trace output.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Scheduler) {
		s.runID = g.Generate()
	}
}

// New creates a scheduler over the given platform.
func New(p *platform.Platform, opts ...Option) *Scheduler {
	s := &Scheduler{
		platform: p,
		queue:    newQueue(),
		seq:      NewSeqCounter(),
		runID:    UUIDv7Generator{}.Generate(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunID returns the token identifying this run in traces.
func (s *Scheduler) RunID() string {
	return s.runID
}

// Pending returns the number of queued events.
func (s *Scheduler) Pending() int {
	return s.queue.len()
}

// Schedule queues a one-shot event delay nanoseconds from now and notifies
// the platform so an in-progress wait re-evaluates its wake instant.
// Negative delays are clamped to zero. Returns the assigned tag.
func (s *Scheduler) Schedule(name string, delay platform.Interval, h Handler) Tag {
	if delay < 0 {
		delay = 0
	}
	return s.enqueue(name, s.platform.Now().Add(delay), 0, h)
}

// ScheduleEvery queues a periodic event first due offset nanoseconds from
// now, then every period thereafter. A non-positive period makes the event
// one-shot.
func (s *Scheduler) ScheduleEvery(name string, offset, period platform.Interval, h Handler) Tag {
	if offset < 0 {
		offset = 0
	}
	if period < 0 {
		period = 0
	}
	return s.enqueue(name, s.platform.Now().Add(offset), period, h)
}

func (s *Scheduler) enqueue(name string, at platform.Instant, period platform.Interval, h Handler) Tag {
	tag := s.nextTag(at)
	s.queue.push(&Event{
		Name:    NormalizeName(name),
		Tag:     tag,
		Period:  period,
		Handler: h,
	})
	s.platform.NotifyOfEvent()
	return tag
}

// nextTag places an instant after the tag currently being processed: an
// instant at the current tag's time lands on the next microstep, and one
// before it is pulled forward (time does not run backwards).
func (s *Scheduler) nextTag(at platform.Instant) Tag {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current
	if at <= cur.Time {
		return Tag{Time: cur.Time, Microstep: cur.Microstep + 1}
	}
	return Tag{Time: at}
}

func (s *Scheduler) setCurrent(tag Tag) {
	s.mu.Lock()
	s.current = tag
	s.mu.Unlock()
}

// Stop asks the run loop to exit. The notify wakes the loop out of its next
// flag check; a wait already in progress finishes first (best-effort
// cancellation, same as any other notification).
func (s *Scheduler) Stop() {
	s.stopping.Store(true)
	s.platform.NotifyOfEvent()
}

// Run executes the loop until the queue empties, the timeout tag is
// reached, Stop is called, or ctx is cancelled. Context cancellation is
// mapped onto Stop, so it shares the best-effort wake latency.
func (s *Scheduler) Run(ctx context.Context) error {
	start := s.platform.Now()
	var stop platform.Instant
	hasStop := s.timeout > 0
	if hasStop {
		stop = start.Add(s.timeout)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-done:
		}
	}()

	slog.Info("scheduler starting", "run_id", s.runID, "pending", s.queue.len())

	s.platform.EnterCriticalSection()
	for {
		if s.stopping.Load() {
			s.platform.ExitCriticalSection()
			slog.Info("scheduler stopped", "run_id", s.runID)
			return ctx.Err()
		}

		tag, ok := s.queue.peekTag()
		if !ok {
			break
		}
		if hasStop && tag.Time > stop {
			break
		}

		now := s.platform.Now()
		if tag.Time > now {
			status := s.platform.SleepUntilLocked(tag.Time)
			if err := s.recordWake(ctx, tag.Time, status); err != nil {
				s.platform.ExitCriticalSection()
				return err
			}
			if status == platform.Interrupted {
				slog.Debug("wait interrupted", "run_id", s.runID, "wakeup_ns", int64(tag.Time))
			}
			// Re-evaluate the earliest tag either way: an injected event
			// may now be due sooner, and a rounded-down coarse delay may
			// leave a residue to sleep again.
			continue
		}

		due := s.queue.popAt(tag)
		s.setCurrent(tag)
		s.platform.ExitCriticalSection()

		for _, ev := range due {
			if err := s.recordEvent(ctx, ev); err != nil {
				return err
			}
			slog.Debug("event fired",
				"run_id", s.runID,
				"name", ev.Name,
				"tag_ns", int64(ev.Tag.Time),
				"microstep", ev.Tag.Microstep)
			if ev.Handler != nil {
				ev.Handler(s, *ev)
			}
			if ev.Period > 0 {
				next := *ev
				next.Tag = Tag{Time: ev.Tag.Time.Add(ev.Period)}
				s.queue.push(&next)
			}
		}

		s.platform.EnterCriticalSection()
	}
	s.platform.ExitCriticalSection()

	slog.Info("scheduler finished", "run_id", s.runID, "last_seq", s.seq.Last())
	return nil
}

func (s *Scheduler) recordWake(ctx context.Context, wakeup platform.Instant, status platform.Status) error {
	if s.recorder == nil {
		s.seq.Next()
		return nil
	}
	rec := WakeRecord{
		RunID:    s.runID,
		Seq:      s.seq.Next(),
		WakeupNS: int64(wakeup),
		ActualNS: int64(s.platform.Now()),
		Status:   status,
	}
	if err := s.recorder.RecordWake(ctx, rec); err != nil {
		return fmt.Errorf("record wake: %w", err)
	}
	return nil
}

func (s *Scheduler) recordEvent(ctx context.Context, ev *Event) error {
	if s.recorder == nil {
		s.seq.Next()
		return nil
	}
	rec := EventRecord{
		RunID:     s.runID,
		Seq:       s.seq.Next(),
		Name:      ev.Name,
		TagNS:     int64(ev.Tag.Time),
		Microstep: ev.Tag.Microstep,
	}
	if err := s.recorder.RecordEvent(ctx, rec); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}
