// Package platform implements the interruptible-sleep primitive of the
// tickwake runtime: a monotonic tick-based clock, a non-reentrant critical
// section, a single-bit async event signal, and a sleep engine that picks
// between busy-polling and a coarse delay by duration.
//
// ARCHITECTURE:
//
// Single-Flow Consumer, Asynchronous Producer:
// Exactly one logical control flow (the scheduler loop) calls the sleep
// operations. The only other actor is an event-producer context that may run
// asynchronously and calls NotifyOfEvent. The critical section is the sole
// synchronization mechanism between the two; the async flag is the only bit
// of information that crosses the boundary.
//
// Wait Strategy:
// Sleep durations below a configurable spin threshold (default 1000ns) are
// served by busy-polling the raw tick counter, because the coarse delay
// primitive has microsecond granularity and would overshoot. Longer
// durations are rounded to the nearest microsecond and served by a single
// coarse delay call, trading wake latency for lower CPU usage.
//
// Cancellation:
// SleepUntilLocked releases the critical section for the duration of the
// wait so the producer can signal. The wait primitives themselves are not
// interruptible: a notification that arrives mid-wait is observed only after
// the wait naturally elapses, then reported as Interrupted. True early wake
// would require a timer-interrupt redesign; this best-effort semantic is
// intentional.
//
// INVARIANTS:
//   - The tick rate is computed exactly once in New and never changes.
//   - The async flag is read and written only while the critical section
//     is held.
//   - The critical section is not reentrant; callers must balance
//     Enter/Exit calls.
package platform
