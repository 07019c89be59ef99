package harness

import (
	"context"
	"sort"
	"sync"

	"github.com/roach88/tickwake/internal/platform"
	"github.com/roach88/tickwake/internal/sched"
	"github.com/roach88/tickwake/internal/testutil"
)

// TimerSpec declares one timer in a scenario.
type TimerSpec struct {
	Name   string
	Offset platform.Interval
	Period platform.Interval // 0 = one-shot

	// Cascade, when non-empty, makes the timer's handler schedule a
	// zero-delay one-shot of that name, exercising same-instant
	// microstep ordering.
	Cascade string
}

// InjectSpec declares an event injected from "outside" while the scheduler
// is waiting: halfway through the AtWake'th wait (1-based), the named
// one-shot is scheduled, which interrupts that wait.
type InjectSpec struct {
	AtWake int
	Name   string
}

// Scenario is a complete, deterministic scheduler run description.
type Scenario struct {
	Name        string
	TicksPerSec int64             // default 1,000,000 (1 tick per microsecond)
	Timeout     platform.Interval // 0 = run until the queue empties
	RunToken    string            // default "run-0001"
	Timers      []TimerSpec
	Inject      []InjectSpec
}

// TraceRow is one wake or event record in canonical form.
type TraceRow struct {
	Seq       int64  `json:"seq"`
	Kind      string `json:"kind"`
	Name      string `json:"name,omitempty"`
	TagNS     int64  `json:"tag_ns"`
	Microstep uint32 `json:"microstep,omitempty"`
	Status    string `json:"status,omitempty"`
	ActualNS  int64  `json:"actual_ns,omitempty"`
}

// Snapshot is the serializable result of a scenario run.
type Snapshot struct {
	Scenario string     `json:"scenario"`
	RunToken string     `json:"run_token"`
	Trace    []TraceRow `json:"trace"`
}

// Result holds a completed run's trace.
type Result struct {
	Snapshot Snapshot
}

// memoryRecorder collects trace rows in memory, in record order.
type memoryRecorder struct {
	mu   sync.Mutex
	rows []TraceRow
}

func (m *memoryRecorder) RecordWake(_ context.Context, rec sched.WakeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, TraceRow{
		Seq:      rec.Seq,
		Kind:     "wake",
		TagNS:    rec.WakeupNS,
		Status:   rec.Status.String(),
		ActualNS: rec.ActualNS,
	})
	return nil
}

func (m *memoryRecorder) RecordEvent(_ context.Context, rec sched.EventRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, TraceRow{
		Seq:       rec.Seq,
		Kind:      "event",
		Name:      rec.Name,
		TagNS:     rec.TagNS,
		Microstep: rec.Microstep,
	})
	return nil
}

// injectingSleeper advances virtual time and performs scenario injections
// halfway through the matching wait.
type injectingSleeper struct {
	base      *testutil.VirtualSleeper
	scheduler *sched.Scheduler
	inject    []InjectSpec
	wakes     int
}

func (i *injectingSleeper) Delay(usec int64) {
	i.wakes++
	var pending *InjectSpec
	for idx := range i.inject {
		if i.inject[idx].AtWake == i.wakes {
			pending = &i.inject[idx]
			break
		}
	}
	if pending == nil {
		i.base.Delay(usec)
		return
	}

	half := usec / 2
	i.base.Delay(half)
	i.scheduler.Schedule(pending.Name, 0, nil)
	i.base.Delay(usec - half)
}

// Run executes a scenario to completion and returns its trace.
func Run(scenario *Scenario) (*Result, error) {
	ticksPerSec := scenario.TicksPerSec
	if ticksPerSec == 0 {
		ticksPerSec = 1_000_000
	}
	token := scenario.RunToken
	if token == "" {
		token = "run-0001"
	}

	ticks := platform.NewManualTicks(ticksPerSec)
	sleeper := &injectingSleeper{
		base:   testutil.NewVirtualSleeper(ticks),
		inject: scenario.Inject,
	}
	p := platform.New(ticks,
		platform.WithSpinThreshold(0),
		platform.WithSleeper(sleeper))

	rec := &memoryRecorder{}
	s := sched.New(p,
		sched.WithRecorder(rec),
		sched.WithTimeout(scenario.Timeout),
		sched.WithTokenGenerator(sched.NewFixedGenerator(token)))
	sleeper.scheduler = s

	for _, spec := range scenario.Timers {
		handler := sched.Handler(nil)
		if spec.Cascade != "" {
			cascade := spec.Cascade
			handler = func(s *sched.Scheduler, _ sched.Event) {
				s.Schedule(cascade, 0, nil)
			}
		}
		s.ScheduleEvery(spec.Name, spec.Offset, spec.Period, handler)
	}

	if err := s.Run(context.Background()); err != nil {
		return nil, err
	}

	rows := rec.rows
	sort.Slice(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })

	return &Result{Snapshot: Snapshot{
		Scenario: scenario.Name,
		RunToken: token,
		Trace:    rows,
	}}, nil
}
