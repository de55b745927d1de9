package engine

import (
	"testing"

	"github.com/strata-audio/strata"
)

func TestQueueOrder(t *testing.T) {
	var q eventQueue
	for i := 0; i < 10; i++ {
		if !q.push(strata.NoteOnEvent(0, byte(i), 1)) {
			t.Fatalf("push %d failed on empty queue", i)
		}
	}
	for i := 0; i < 10; i++ {
		ev, ok := q.pop()
		if !ok {
			t.Fatalf("pop %d failed", i)
		}
		if ev.Note != byte(i) {
			t.Errorf("pop %d: note %d, want %d", i, ev.Note, i)
		}
	}
	if _, ok := q.pop(); ok {
		t.Error("pop on drained queue succeeded")
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	var q eventQueue
	for i := 0; i < eventQueueSize; i++ {
		if !q.push(strata.NoteOnEvent(0, 60, 1)) {
			t.Fatalf("push %d failed before the queue was full", i)
		}
	}
	if q.push(strata.NoteOnEvent(0, 61, 1)) {
		t.Error("push succeeded on a full queue")
	}
	if _, ok := q.pop(); !ok {
		t.Fatal("pop failed on a full queue")
	}
	if !q.push(strata.NoteOnEvent(0, 62, 1)) {
		t.Error("push failed after making room")
	}
}

// Run with -race: a single producer and a single consumer may use the
// queue concurrently without locks.
func TestQueueConcurrent(t *testing.T) {
	var q eventQueue
	const total = 10000
	done := make(chan int)
	go func() {
		received := 0
		var last int = -1
		for received < total {
			ev, ok := q.pop()
			if !ok {
				continue
			}
			got := ev.Frame
			if got <= last {
				t.Errorf("events out of order: %d after %d", got, last)
				break
			}
			last = got
			received++
		}
		done <- received
	}()
	sent := 0
	for sent < total {
		if q.push(strata.Event{Frame: sent, Kind: strata.NoteOn, Note: 60, Velocity: 1}) {
			sent++
		}
	}
	if got := <-done; got != total {
		t.Errorf("consumer received %d of %d events", got, total)
	}
}
