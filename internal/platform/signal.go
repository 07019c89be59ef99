package platform

// NotifyOfEvent records that an asynchronous event was produced.
//
// Callable from any producer goroutine. The section is held only long
// enough to set one boolean, so the producer is never blocked for more than
// the consumer's own flag accesses.
//
// Notifying does not wake a waiter out of an in-progress coarse delay; the
// flag is observed when the wait elapses and the consumer reacquires the
// section. See SleepUntilLocked.
func (p *Platform) NotifyOfEvent() {
	p.cs.Enter()
	p.asyncEvent = true
	p.cs.Exit()
}
