// Package sched implements the time-triggered scheduler that consumes the
// platform sleep primitive.
//
// ARCHITECTURE:
//
// Single-Writer Run Loop:
// One goroutine owns the loop: it peeks the earliest tag on the event
// queue, sleeps until that tag with platform.SleepUntilLocked, and invokes
// the due handlers. All tag processing happens in this one flow for
// deterministic ordering.
//
// Event Injection:
// Schedule may be called from any goroutine. It pushes onto the queue and
// calls platform.NotifyOfEvent so an in-progress wait reports Interrupted
// and the loop re-evaluates the earliest tag. The wait itself is not
// interruptible, so an injected event shortens the next wait rather than
// the current one; events are still never processed before their tag.
//
// Tags:
// Events carry a superdense tag (time, microstep). Scheduling at the tag
// currently being processed lands on the next microstep of the same
// instant, so same-instant cascades keep a causal order without advancing
// time.
//
// Tracing:
// Every wake and every processed event is stamped with a sequence number
// from an atomic counter and handed to the optional Recorder. Wake records
// are written while the critical section is held; recorders must be quick.
package sched
