package platform

import (
	"runtime"
	"time"
)

// DefaultSpinThreshold is the duration below which Sleep busy-polls the tick
// counter. The coarse delay primitive has microsecond granularity, so waits
// shorter than this would overshoot badly on that path.
const DefaultSpinThreshold = Interval(1000)

// Status reports how a sleep ended.
type Status int

const (
	// Completed means the full requested or implied duration elapsed.
	Completed Status = iota
	// Interrupted means the async event flag was observed set when the
	// wait ended.
	Interrupted
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Sleeper is the coarse delay primitive used for waits at or above the spin
// threshold. Delay blocks the caller for approximately usec microseconds.
type Sleeper interface {
	Delay(usec int64)
}

// osSleeper delays via the host scheduler.
type osSleeper struct{}

func (osSleeper) Delay(usec int64) {
	time.Sleep(time.Duration(usec) * time.Microsecond)
}

// waitPolicy selects a wait primitive by duration. Both the threshold and
// the coarse primitive are injectable so each strategy can be exercised
// independently.
type waitPolicy struct {
	spinThreshold Interval
	sleeper       Sleeper
}

// Sleep blocks for the given duration.
//
//   - d < 0: treated as already past due; returns Completed immediately.
//   - d below the spin threshold: busy-polls the raw tick counter until the
//     target tick is reached, for sub-microsecond precision.
//   - otherwise: rounds to the nearest microsecond and issues a single
//     coarse delay call.
//
// Sleep never consults the async event flag; it is a plain timed wait and
// always returns Completed.
func (p *Platform) Sleep(d Interval) Status {
	switch {
	case d < 0:
		// Already due.
	case d < p.policy.spinThreshold:
		p.spinFor(d)
	default:
		p.policy.sleeper.Delay((int64(d) + 500) / 1000)
	}
	return Completed
}

// SleepUntilLocked blocks until the absolute wakeup instant, or reports that
// an async event arrived during the wait.
//
// Precondition (not re-verified): the caller holds the critical section.
// On return the caller holds it again, whatever the status.
//
// The section is released for the duration of the wait so the producer can
// run and signal. The flag is cleared before releasing, so only
// notifications arriving inside the wait window count. A wakeup at or
// before now returns Completed without waiting.
//
// Limitation: the underlying wait primitives are not interruptible, so a
// notification that arrives mid-wait is only observed once the wait
// naturally elapses. Early wake would need a hardware-timer redesign.
func (p *Platform) SleepUntilLocked(wakeup Instant) Status {
	p.asyncEvent = false
	p.cs.Exit()

	d := wakeup.Sub(p.Now())
	if d <= 0 {
		// Target already reached or passed; not an error.
		p.cs.Enter()
		return Completed
	}
	p.Sleep(d)

	p.cs.Enter()
	if p.asyncEvent {
		p.asyncEvent = false
		return Interrupted
	}
	return Completed
}

// spinFor busy-polls the tick counter until d nanoseconds' worth of ticks
// have elapsed. Gosched keeps the spin from starving the producer's
// goroutine on a single-CPU host.
func (p *Platform) spinFor(d Interval) {
	until := p.source.CurrentTick() + uint64(float64(d)/p.nsPerTick)
	for p.source.CurrentTick() < until {
		runtime.Gosched()
	}
}
