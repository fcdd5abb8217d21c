// Package rob implements the Core's reorder buffer: a fixed-capacity
// circular buffer of cycle values, one per in-flight instruction, tracking
// when each entry becomes eligible for in-order retirement.
package rob

import "github.com/ehrlich-b/go-oocsim/internal/constants"

// ReorderBuffer is a fixed-capacity circular buffer of Cycle values.
// Entries between head and tail (mod capacity) are live. A stored value
// of constants.CycleInfinity means the entry is still awaiting a memory
// response.
type ReorderBuffer struct {
	entries    []constants.Cycle
	head, tail int
	count      int
}

// New returns a ReorderBuffer with the given capacity. Panics if size<=0,
// an invariant violation at construction time rather than a runtime one.
func New(size int) *ReorderBuffer {
	if size <= 0 {
		panic("rob: capacity must be positive")
	}
	return &ReorderBuffer{entries: make([]constants.Cycle, size)}
}

// Capacity returns rob_size.
func (r *ReorderBuffer) Capacity() int { return len(r.entries) }

// Occupancy returns the number of live entries, always in [0, Capacity()].
func (r *ReorderBuffer) Occupancy() int { return r.count }

// Full reports whether the buffer has no free slot for Issue.
func (r *ReorderBuffer) Full() bool { return r.count == len(r.entries) }

// Empty reports whether the buffer has no live entries.
func (r *ReorderBuffer) Empty() bool { return r.count == 0 }

// Issue writes cycle into a fresh tail slot and returns that slot's index,
// which callers (e.g. an MSHR waiter list) use later with MarkReady.
// Panics on overflow: the caller must check Full() first per the issue
// phase's occupancy gate.
func (r *ReorderBuffer) Issue(cycle constants.Cycle) int {
	if r.Full() {
		panic("rob: issue on full reorder buffer")
	}
	slot := r.tail
	r.entries[slot] = cycle
	r.tail = (r.tail + 1) % len(r.entries)
	r.count++
	return slot
}

// MarkReady sets the entry at slot to the given cycle, resolving a prior
// CycleInfinity write once its MSHR response arrives.
func (r *ReorderBuffer) MarkReady(slot int, cycle constants.Cycle) {
	r.entries[slot] = cycle
}

// Retire pops up to max head entries whose stored cycle is <= now,
// stopping at the first non-ready head (or when the buffer is empty), and
// returns the number actually retired. The loop is gated on the live
// count, so it never retires from an empty buffer.
func (r *ReorderBuffer) Retire(now constants.Cycle, max int) int {
	retired := 0
	for retired < max && r.count > 0 {
		if r.entries[r.head] > now {
			break
		}
		r.head = (r.head + 1) % len(r.entries)
		r.count--
		retired++
	}
	return retired
}
