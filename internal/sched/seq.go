package sched

import "sync/atomic"

// SeqCounter stamps trace records with a strictly increasing sequence.
//
// Trace ordering must not depend on wall-clock or tick readings: two
// records can share a tag, and wake records are written at a different
// point in the loop than event records. The counter makes the interleaving
// explicit and replayable.
//
// Thread-safety: safe for concurrent use (atomic operations), though the
// scheduler's single-writer loop is normally the only caller of Next.
type SeqCounter struct {
	n atomic.Int64
}

// NewSeqCounter creates a counter starting at 0; the first Next returns 1.
func NewSeqCounter() *SeqCounter {
	return &SeqCounter{}
}

// Next increments the counter and returns the new value.
// Each call returns a unique, increasing sequence number.
func (c *SeqCounter) Next() int64 {
	return c.n.Add(1)
}

// Last returns the most recently issued sequence number without
// incrementing. Zero means nothing has been issued.
func (c *SeqCounter) Last() int64 {
	return c.n.Load()
}
