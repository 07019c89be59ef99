package platform

// Platform owns the runtime's timing state: the tick source, the tick-rate
// conversion factor, the critical section, and the async event flag.
//
// The original design kept these as hidden static storage with lazy
// initialization; here they are explicit fields of one context object owned
// by the scheduler. Single-instance semantics are preserved by construction
// (one Platform per runtime), not by global state. The tick rate and the
// lock are both initialized in New, in the same one-time startup step, so
// no operation carries an initialization check.
//
// Thread-safety model:
//   - Now, ReadInstant, Calibration: safe from any goroutine.
//   - NotifyOfEvent: safe from any goroutine (the producer path).
//   - Sleep, SleepUntilLocked, EnterCriticalSection, ExitCriticalSection:
//     must be called from the single consumer flow.
type Platform struct {
	source    TickSource
	nsPerTick float64 // immutable after New

	policy waitPolicy

	cs         CriticalSection
	asyncEvent bool // guarded by cs
}

// Option configures a Platform.
type Option func(*Platform)

// WithSpinThreshold sets the duration below which Sleep busy-polls the tick
// counter instead of issuing a coarse delay. Zero disables spinning
// entirely; every non-negative duration then takes the coarse path.
func WithSpinThreshold(threshold Interval) Option {
	return func(p *Platform) {
		p.policy.spinThreshold = threshold
	}
}

// WithSleeper replaces the coarse delay primitive. Tests use this to record
// delay calls or to drive a manual tick source in virtual time.
func WithSleeper(s Sleeper) Option {
	return func(p *Platform) {
		p.policy.sleeper = s
	}
}

// New constructs a Platform around the given tick source.
//
// The nanoseconds-per-tick conversion factor is computed here, exactly once;
// it never changes for the life of the Platform. A nil source or a
// non-positive tick frequency aborts via panic (contract violation).
func New(source TickSource, opts ...Option) *Platform {
	if source == nil {
		panic("platform: nil tick source")
	}
	ticksPerSec := source.TicksPerSec()
	if ticksPerSec <= 0 {
		panic("platform: ticks per second must be positive")
	}

	p := &Platform{
		source:    source,
		nsPerTick: 1e9 / float64(ticksPerSec),
		policy: waitPolicy{
			spinThreshold: DefaultSpinThreshold,
			sleeper:       osSleeper{},
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}
