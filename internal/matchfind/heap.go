package matchfind

import "container/heap"

// candidateHeap is a min-heap of candidate match positions, used to retain
// the maxSameLength nearest (largest) positions among all matches sharing
// the current length: whenever it is full, a new position can only survive
// by being larger than the smallest one already kept.
type candidateHeap []int

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

func (h *candidateHeap) push(pos int) {
	heap.Push(h, pos)
}

func (h *candidateHeap) pop() int {
	return heap.Pop(h).(int)
}

func (h candidateHeap) top() int {
	return h[0]
}
