package testutil

import (
	"sync"

	"github.com/roach88/tickwake/internal/platform"
)

// RecordingSleeper captures coarse delay calls without sleeping.
//
// Tests use it to assert which wait strategy the sleep engine chose and
// with what rounded microsecond count.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type RecordingSleeper struct {
	mu     sync.Mutex
	delays []int64
}

// NewRecordingSleeper creates an empty recording sleeper.
func NewRecordingSleeper() *RecordingSleeper {
	return &RecordingSleeper{}
}

// Delay records the requested microsecond count and returns immediately.
func (r *RecordingSleeper) Delay(usec int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, usec)
}

// Delays returns a copy of all recorded microsecond counts, in call order.
func (r *RecordingSleeper) Delays() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, len(r.delays))
	copy(out, r.delays)
	return out
}

// Calls returns the number of Delay calls recorded.
func (r *RecordingSleeper) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.delays)
}

// VirtualSleeper advances a manual tick source instead of sleeping, so a
// whole scheduler run executes deterministically in virtual time.
//
// The tick source frequency must be at least 1 MHz (one tick per
// microsecond) for the conversion to be exact; fractional residues are
// truncated. Delays requested in whole microseconds advance virtual time by
// exactly the requested amount.
type VirtualSleeper struct {
	Ticks *platform.ManualTicks
}

// NewVirtualSleeper wraps a manual tick source.
func NewVirtualSleeper(ticks *platform.ManualTicks) *VirtualSleeper {
	return &VirtualSleeper{Ticks: ticks}
}

// Delay advances the tick source by usec microseconds' worth of ticks.
func (v *VirtualSleeper) Delay(usec int64) {
	perUsec := uint64(v.Ticks.TicksPerSec()) / 1e6
	v.Ticks.Advance(uint64(usec) * perUsec)
}
