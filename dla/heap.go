package dla

import "container/heap"

// pointHeap is a max-heap of lattice cells ordered by a swappable key
// function. The attractor metric can change at runtime, so unlike a plain
// container/heap usage the key is mutable: rekey replaces it and restores
// the heap invariant in O(n).
type pointHeap[P comparable] struct {
	items []P
	key   func(P) int64
}

func (h *pointHeap[P]) Len() int           { return len(h.items) }
func (h *pointHeap[P]) Less(i, j int) bool { return h.key(h.items[i]) > h.key(h.items[j]) }
func (h *pointHeap[P]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *pointHeap[P]) Push(x any) {
	h.items = append(h.items, x.(P))
}

func (h *pointHeap[P]) Pop() any {
	n := len(h.items) - 1
	p := h.items[n]
	h.items = h.items[:n]
	return p
}

func (h *pointHeap[P]) push(p P) {
	heap.Push(h, p)
}

func (h *pointHeap[P]) pop() (P, bool) {
	var zero P
	if len(h.items) == 0 {
		return zero, false
	}
	return heap.Pop(h).(P), true
}

// top returns the cell maximising the current key.
func (h *pointHeap[P]) top() (P, bool) {
	var zero P
	if len(h.items) == 0 {
		return zero, false
	}
	return h.items[0], true
}

func (h *pointHeap[P]) clear() {
	h.items = h.items[:0]
}

func (h *pointHeap[P]) reserve(n int) {
	if cap(h.items) < n {
		items := make([]P, len(h.items), n)
		copy(items, h.items)
		h.items = items
	}
}

// rekey swaps the ordering key and reheapifies.
func (h *pointHeap[P]) rekey(key func(P) int64) {
	h.key = key
	heap.Init(h)
}
