package platform

import (
	"sync/atomic"
	"time"
)

// TickSource exposes a raw hardware-style time counter.
//
// Implementations must guarantee that CurrentTick never decreases and that
// TicksPerSec returns the same positive value for the life of the source.
type TickSource interface {
	// TicksPerSec returns the counter frequency in ticks per second.
	TicksPerSec() int64

	// CurrentTick returns the raw counter value.
	CurrentTick() uint64
}

// SystemTicks is a TickSource backed by the host's monotonic clock.
//
// The counter runs at 1 GHz (one tick per nanosecond) and starts at zero
// when the source is constructed, so instants derived from it count
// nanoseconds since process-local construction, not since boot.
type SystemTicks struct {
	epoch time.Time
}

// NewSystemTicks creates a system tick source with its epoch at now.
func NewSystemTicks() *SystemTicks {
	return &SystemTicks{epoch: time.Now()}
}

// TicksPerSec returns 1e9: SystemTicks counts nanoseconds.
func (s *SystemTicks) TicksPerSec() int64 {
	return int64(time.Second / time.Nanosecond)
}

// CurrentTick returns nanoseconds elapsed since the epoch.
// time.Since reads the runtime's monotonic clock, so the value never
// decreases, even across wall-clock adjustments.
func (s *SystemTicks) CurrentTick() uint64 {
	return uint64(time.Since(s.epoch))
}

// ManualTicks is a TickSource advanced explicitly by the caller.
//
// It exists for tests and deterministic simulation: the counter only moves
// when Advance is called, so timing behavior can be scripted exactly.
//
// Thread-safety: safe for concurrent use via atomic operations.
type ManualTicks struct {
	ticksPerSec int64
	tick        atomic.Uint64
}

// NewManualTicks creates a manual source with the given counter frequency.
// Panics if ticksPerSec is not positive; a zero or negative frequency makes
// tick-to-nanosecond conversion meaningless.
func NewManualTicks(ticksPerSec int64) *ManualTicks {
	if ticksPerSec <= 0 {
		panic("platform: ticks per second must be positive")
	}
	return &ManualTicks{ticksPerSec: ticksPerSec}
}

// TicksPerSec returns the frequency the source was constructed with.
func (m *ManualTicks) TicksPerSec() int64 {
	return m.ticksPerSec
}

// CurrentTick returns the current counter value.
func (m *ManualTicks) CurrentTick() uint64 {
	return m.tick.Load()
}

// Advance moves the counter forward by n ticks.
func (m *ManualTicks) Advance(n uint64) {
	m.tick.Add(n)
}
