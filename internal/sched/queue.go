package sched

import (
	"container/heap"
	"sync"
)

// queue is a thread-safe priority queue of events ordered by tag.
//
// Thread-safety is provided for external injection (Schedule from any
// goroutine) while the scheduler's run loop peeks and pops. Equal tags pop
// FIFO via a per-queue insertion sequence.
//
// The queue carries no signaling of its own: waking the consumer is the
// platform's async event flag, not a channel.
type queue struct {
	mu      sync.Mutex
	h       eventHeap
	nextSeq uint64
}

func newQueue() *queue {
	return &queue{h: make(eventHeap, 0, 16)}
}

// push adds an event, assigning its FIFO tie-break sequence.
func (q *queue) push(ev *Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ev.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.h, ev)
}

// peekTag returns the earliest tag without removing anything.
func (q *queue) peekTag() (Tag, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.h) == 0 {
		return Tag{}, false
	}
	return q.h[0].Tag, true
}

// popAt removes and returns all events whose tag equals the given tag, in
// insertion order. Only the consumer pops, so events at an already-peeked
// tag cannot disappear between peek and pop.
func (q *queue) popAt(tag Tag) []*Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []*Event
	for len(q.h) > 0 && q.h[0].Tag == tag {
		due = append(due, heap.Pop(&q.h).(*Event))
	}
	return due
}

// len returns the number of queued events.
func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.h)
}

// eventHeap implements heap.Interface ordered by tag, then insertion seq.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Tag != h[j].Tag {
		return h[i].Tag.Before(h[j].Tag)
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil // release the Event pointer for GC
	*h = old[:n-1]
	return ev
}
