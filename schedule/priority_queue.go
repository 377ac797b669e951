package schedule

import "container/heap"

// PriorityQueue is a binary min-heap. The most urgent item, as decided by the
// predicate given to NewPriorityQueue, is always at the head.
type PriorityQueue[T any] struct {
	h *items[T]
}

type items[T any] struct {
	xs        []T
	aIsUrgent func(a, b T) bool
}

func (h *items[T]) Len() int           { return len(h.xs) }
func (h *items[T]) Less(i, j int) bool { return h.aIsUrgent(h.xs[i], h.xs[j]) }
func (h *items[T]) Swap(i, j int)      { h.xs[i], h.xs[j] = h.xs[j], h.xs[i] }

func (h *items[T]) Push(x any) {
	h.xs = append(h.xs, x.(T))
}

func (h *items[T]) Pop() any {
	n := len(h.xs)
	x := h.xs[n-1]
	var zero T
	h.xs[n-1] = zero
	h.xs = h.xs[:n-1]
	return x
}

// NewPriorityQueue returns an empty queue. aIsUrgent reports whether a must
// leave the queue before b.
func NewPriorityQueue[T any](aIsUrgent func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{h: &items[T]{aIsUrgent: aIsUrgent}}
}

func (q *PriorityQueue[T]) Add(xs ...T) {
	for _, x := range xs {
		heap.Push(q.h, x)
	}
}

// Poll removes and returns the most urgent item.
func (q *PriorityQueue[T]) Poll() (T, bool) {
	if q.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(q.h).(T), true
}

// Peek returns the most urgent item without removing it.
func (q *PriorityQueue[T]) Peek() (T, bool) {
	if q.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.h.xs[0], true
}

func (q *PriorityQueue[T]) Size() int {
	return q.h.Len()
}
