package sched

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tickwake/internal/platform"
)

// Tag is a superdense timestamp: an instant plus a microstep index. Two
// events at the same instant are ordered by microstep, so same-instant
// cascades retain causal order without advancing time.
type Tag struct {
	Time      platform.Instant
	Microstep uint32
}

// Before reports whether t orders strictly before o: by time first, then
// by microstep.
func (t Tag) Before(o Tag) bool {
	if t.Time != o.Time {
		return t.Time < o.Time
	}
	return t.Microstep < o.Microstep
}

// Handler is invoked when an event's tag is reached. It runs on the
// scheduler's single loop goroutine with the critical section released, so
// it may call Schedule.
type Handler func(s *Scheduler, ev Event)

// Event is one entry on the scheduler's queue.
type Event struct {
	// Name identifies the event in logs and traces. Stored NFC-normalized;
	// see NormalizeName.
	Name string

	// Tag is the instant and microstep at which the event is due.
	Tag Tag

	// Period, when positive, reschedules the event at Tag.Time+Period
	// (microstep 0) after each firing.
	Period platform.Interval

	// Handler may be nil for events that only exist to appear in the trace.
	Handler Handler

	// seq breaks ties between events with equal tags, FIFO by insertion.
	seq uint64
}

// NormalizeName returns the NFC normalization of an event name.
//
// Names arrive from config files and from code; the same visual name can
// have multiple Unicode encodings. Traces compare and group by name, so
// every name is normalized once at the boundary.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}
