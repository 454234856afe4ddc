package engine

import "container/heap"

type ranked[T any] struct {
	item ResultItem[T]
	seq  int
}

// outranks orders by relevance, then by insertion order.
func (r ranked[T]) outranks(o ranked[T]) bool {
	if r.item.Relevance != o.item.Relevance {
		return r.item.Relevance > o.item.Relevance
	}
	return r.seq < o.seq
}

// worstFirst is a heap whose root is the lowest ranked item.
type worstFirst[T any] []ranked[T]

func (h worstFirst[T]) Len() int           { return len(h) }
func (h worstFirst[T]) Less(i, j int) bool { return h[j].outranks(h[i]) }
func (h worstFirst[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst[T]) Push(x any)        { *h = append(*h, x.(ranked[T])) }
func (h *worstFirst[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topK keeps the k best items seen so far.
type topK[T any] struct {
	k    int
	seq  int
	heap worstFirst[T]
}

func newTopK[T any](k int) *topK[T] {
	if k < 0 {
		k = 0
	}
	return &topK[T]{k: k}
}

// Push offers an item; it is dropped when k better items are already held.
func (t *topK[T]) Push(item ResultItem[T]) {
	r := ranked[T]{item: item, seq: t.seq}
	t.seq++
	if t.k == 0 {
		return
	}
	if len(t.heap) < t.k {
		heap.Push(&t.heap, r)
		return
	}
	if r.outranks(t.heap[0]) {
		t.heap[0] = r
		heap.Fix(&t.heap, 0)
	}
}

// Drain empties the selector and returns its items best first.
func (t *topK[T]) Drain() []ResultItem[T] {
	out := make([]ResultItem[T], len(t.heap))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.heap).(ranked[T]).item
	}
	return out
}
