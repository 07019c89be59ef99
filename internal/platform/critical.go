package platform

import "sync"

// CriticalSection is a non-reentrant mutual-exclusion region.
//
// It guards the async event flag shared between the single consumer flow and
// the asynchronous producer. Acquisition blocks until granted; there is no
// timeout on the lock itself (the effective timeout of the runtime is the
// sleep duration).
//
// Contract: callers must balance Enter/Exit. The section offers no
// reentrancy and no ownership tracking beyond held / not held: a holder that
// re-enters deadlocks its own control flow, and an unbalanced Exit is a
// fatal runtime error. Both are programming-contract violations, consistent
// with the fail-fast posture of the rest of the package.
//
// The underlying lock needs no setup beyond its zero value, so the section
// is ready as soon as the Platform is constructed; there is no per-entry
// initialization check on the hot path.
type CriticalSection struct {
	mu sync.Mutex
}

// Enter acquires the section, blocking the calling flow until granted.
func (c *CriticalSection) Enter() {
	c.mu.Lock()
}

// Exit releases the section. Must match a prior Enter.
func (c *CriticalSection) Exit() {
	c.mu.Unlock()
}

// EnterCriticalSection acquires the platform's critical section.
func (p *Platform) EnterCriticalSection() {
	p.cs.Enter()
}

// ExitCriticalSection releases the platform's critical section.
func (p *Platform) ExitCriticalSection() {
	p.cs.Exit()
}
