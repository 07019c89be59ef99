package platform

// Instant is an absolute point in time, in nanoseconds since the tick
// source's epoch. Successive readings never decrease.
type Instant int64

// Interval is a signed duration in nanoseconds. Negative intervals represent
// "already due" and are valid inputs to the sleep operations.
type Interval int64

// Add returns the instant d nanoseconds after i.
func (i Instant) Add(d Interval) Instant {
	return i + Instant(d)
}

// Sub returns the interval from o to i.
func (i Instant) Sub(o Instant) Interval {
	return Interval(i - o)
}

// Now reads the raw tick counter and converts it to an Instant using the
// tick rate computed at construction. The conversion truncates to whole
// nanoseconds.
func (p *Platform) Now() Instant {
	return Instant(float64(p.source.CurrentTick()) * p.nsPerTick)
}

// ReadInstant fills dst with the current instant.
//
// A nil destination is a programming-contract violation and aborts via
// panic: a real-time core cannot safely continue after one, and there is
// nothing to recover to.
func (p *Platform) ReadInstant(dst *Instant) {
	if dst == nil {
		panic("platform: ReadInstant: nil destination")
	}
	*dst = p.Now()
}

// Calibration reports the tick source frequency and the derived
// nanoseconds-per-tick conversion factor.
func (p *Platform) Calibration() (ticksPerSec int64, nsPerTick float64) {
	return p.source.TicksPerSec(), p.nsPerTick
}
