package engine

import (
	"sync/atomic"

	"github.com/strata-audio/strata"
)

const eventQueueSize = 256 // must be a power of two

// eventQueue is a wait-free single-producer single-consumer ring for note
// events crossing from the control thread to the audio thread. The producer
// only writes head, the consumer only writes tail; both indices grow
// monotonically and are masked into the buffer.
type eventQueue struct {
	buf  [eventQueueSize]strata.Event
	head atomic.Uint64
	tail atomic.Uint64
}

// push appends an event from the control thread. It returns false when the
// ring is full; the event is dropped rather than ever blocking the producer.
func (q *eventQueue) push(e strata.Event) bool {
	head := q.head.Load()
	if head-q.tail.Load() >= eventQueueSize {
		return false
	}
	q.buf[head&(eventQueueSize-1)] = e
	q.head.Store(head + 1)
	return true
}

// pop removes the oldest event on the audio thread.
func (q *eventQueue) pop() (strata.Event, bool) {
	tail := q.tail.Load()
	if tail == q.head.Load() {
		return strata.Event{}, false
	}
	e := q.buf[tail&(eventQueueSize-1)]
	q.tail.Store(tail + 1)
	return e, true
}
