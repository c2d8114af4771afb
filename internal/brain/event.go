package brain

import (
	"container/heap"

	"github.com/nvandessel/spikesim/internal/neuron"
)

// Event is a pending stimulus: a signed strength awaiting delivery to a
// target neuron. Events are grouped by their scheduled timestamp inside the
// buffer; the timestamp itself is the bucket key, not an event field.
type Event struct {
	Target   neuron.ID `json:"target"`
	Strength float64   `json:"strength"`
}

// eventBuffer maps timestamps to insertion-ordered event buckets and keeps a
// min-heap of timestamps so the earliest bucket pops without scanning every
// key. Heap entries can go stale when a purge empties a bucket; popMin skips
// them lazily.
type eventBuffer struct {
	buckets map[float64][]Event
	keys    timeHeap
	count   int
}

func newEventBuffer() *eventBuffer {
	return &eventBuffer{buckets: make(map[float64][]Event)}
}

// add appends ev to the bucket for t, creating the bucket if absent.
func (b *eventBuffer) add(t float64, ev Event) {
	evs, ok := b.buckets[t]
	if !ok {
		heap.Push(&b.keys, t)
	}
	b.buckets[t] = append(evs, ev)
	b.count++
}

// popMin removes and returns the earliest timestamp together with its entire
// bucket. The third return is false when the buffer is empty.
func (b *eventBuffer) popMin() (float64, []Event, bool) {
	for b.keys.Len() > 0 {
		t := b.keys[0]
		heap.Pop(&b.keys)
		evs, ok := b.buckets[t]
		if !ok {
			continue // stale key left behind by a purge
		}
		delete(b.buckets, t)
		b.count -= len(evs)
		return t, evs, true
	}
	return 0, nil, false
}

// purgeTarget discards every buffered event addressed to id. Emptied buckets
// are pruned; their heap keys are skipped lazily.
func (b *eventBuffer) purgeTarget(id neuron.ID) {
	for t, evs := range b.buckets {
		kept := evs[:0]
		for _, ev := range evs {
			if ev.Target != id {
				kept = append(kept, ev)
			}
		}
		b.count -= len(evs) - len(kept)
		if len(kept) == 0 {
			delete(b.buckets, t)
		} else {
			b.buckets[t] = kept
		}
	}
}

// len returns the number of buffered events.
func (b *eventBuffer) len() int { return b.count }

// timeHeap is a min-heap of bucket timestamps.
type timeHeap []float64

func (h timeHeap) Len() int           { return len(h) }
func (h timeHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h timeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *timeHeap) Push(x any)        { *h = append(*h, x.(float64)) }
func (h *timeHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
