package orderbook

// levelHeap implements heap.Interface over price levels with the worst level
// on top, so popping after each push past the depth keeps only the best ones.
// Use container/heap package to manipulate this heap (Init, Push, Pop)
type levelHeap struct {
	levels []AggregatedOrder
	better func(a, b AggregatedOrder) bool
}

func (h levelHeap) Len() int           { return len(h.levels) }
func (h levelHeap) Less(i, j int) bool { return h.better(h.levels[j], h.levels[i]) } // worst bubbles up
func (h levelHeap) Swap(i, j int)      { h.levels[i], h.levels[j] = h.levels[j], h.levels[i] }

func (h *levelHeap) Push(x interface{}) {
	h.levels = append(h.levels, x.(AggregatedOrder))
}

func (h *levelHeap) Pop() interface{} {
	old := h.levels
	n := len(old)
	x := old[n-1]
	h.levels = old[0 : n-1]
	return x
}
