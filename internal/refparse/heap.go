package refparse

import "container/heap"

// rootHeap is a max-heap of edge pointers, ordered by total_size, over the
// edges currently held in the parser's per-target and per-offset maps (each
// the cheapest edge for its offset within its map). When the factory is
// full, the worst (highest total size) root edge is evicted to make room
// for a new one.
//
// Each edge stores its own heapIndex so a specific edge can be located and
// removed from the middle of the heap without a linear scan.
type rootHeap []*edge

func (h rootHeap) Len() int { return len(h) }

func (h rootHeap) Less(i, j int) bool {
	// A max-heap: the edge with the larger total_size should surface to
	// the top, so Less inverts the natural ordering container/heap
	// expects.
	return h[i].totalSize > h[j].totalSize
}

func (h rootHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *rootHeap) Push(x interface{}) {
	e := x.(*edge)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *rootHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	*h = old[:n-1]
	return e
}

func (h *rootHeap) insert(e *edge) {
	heap.Push(h, e)
}

// removeLargest pops and returns the edge with the largest total_size.
func (h *rootHeap) removeLargest() *edge {
	return heap.Pop(h).(*edge)
}

// remove removes a specific edge from the heap by its stored index.
func (h *rootHeap) remove(e *edge) {
	heap.Remove(h, e.heapIndex)
}

func (h rootHeap) contains(e *edge) bool {
	return e.heapIndex >= 0 && e.heapIndex < len(h) && h[e.heapIndex] == e
}

func (h *rootHeap) clear() {
	*h = (*h)[:0]
}

func (h rootHeap) empty() bool {
	return len(h) == 0
}
