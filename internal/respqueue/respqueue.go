// Package respqueue implements the Core-side response priority queue: a
// min-heap keyed on delivery cycle, so the memory phase can drain all
// responses due by the current cycle in non-decreasing delivery-cycle
// order.
//
// This repurposes the teacher's internal/queue package (a queueing and
// pooling concern for its I/O runner) into the analogous queueing concern
// this simulator actually needs: no byte-buffer pooling, since
// memif.Response carries no payload, but the same min-heap-of-timestamped-
// items shape as the source's PriorityQueue<QueuedRequest>.
package respqueue

import (
	"container/heap"

	"github.com/ehrlich-b/go-oocsim/internal/constants"
	"github.com/ehrlich-b/go-oocsim/internal/memif"
)

// Item pairs a response with the cycle at which it should be delivered.
type Item struct {
	Delivery constants.Cycle
	Response memif.Response
}

// Queue is a min-heap of Items ordered by ascending Delivery cycle. Ties
// are broken by insertion order, which is acceptable per spec.md §9.
type Queue struct {
	items  *itemHeap
	seqNum uint64
}

// New returns an empty response queue.
func New() *Queue {
	h := &itemHeap{}
	heap.Init(h)
	return &Queue{items: h}
}

// Push enqueues resp for delivery at the given cycle.
func (q *Queue) Push(delivery constants.Cycle, resp memif.Response) {
	heap.Push(q.items, heapItem{Item: Item{Delivery: delivery, Response: resp}, seq: q.seqNum})
	q.seqNum++
}

// Len reports the number of outstanding entries.
func (q *Queue) Len() int { return q.items.Len() }

// Peek returns the earliest-delivery item without removing it.
func (q *Queue) Peek() (Item, bool) {
	if q.items.Len() == 0 {
		return Item{}, false
	}
	return (*q.items)[0].Item, true
}

// Pop removes and returns the earliest-delivery item.
func (q *Queue) Pop() (Item, bool) {
	if q.items.Len() == 0 {
		return Item{}, false
	}
	hi := heap.Pop(q.items).(heapItem)
	return hi.Item, true
}

type heapItem struct {
	Item
	seq uint64
}

type itemHeap []heapItem

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].Delivery != h[j].Delivery {
		return h[i].Delivery < h[j].Delivery
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(heapItem))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
