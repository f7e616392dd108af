// Package topk keeps the K best elements of an unbounded stream in O(K) memory.
//
// A Selector holds at most K elements in a binary heap whose root is the
// worst of the retained elements, so deciding whether a new element is
// admitted costs one comparison and admitting it costs O(log K).
// A Selector is not safe for concurrent use.
package topk

import (
	"cmp"
	"slices"
)

// Selector retains the K greatest elements under a strict weak ordering less.
type Selector[T any] struct {
	less  func(a, b T) bool
	items []T // min-heap under less; len(items) <= cap(items) == K
}

// New returns a selector keeping the k largest values of an ordered type.
// It panics if k is not positive.
func New[T cmp.Ordered](k int) *Selector[T] {
	return NewFunc[T](k, cmp.Less[T])
}

// NewFunc returns a selector keeping the k greatest elements under less.
// Passing a reversed ordering keeps the k smallest. It panics if k is not
// positive or less is nil.
func NewFunc[T any](k int, less func(a, b T) bool) *Selector[T] {
	if k <= 0 {
		panic("topk: capacity must be positive")
	}
	if less == nil {
		panic("topk: nil ordering")
	}
	return &Selector[T]{
		less:  less,
		items: make([]T, 0, k),
	}
}

// Push offers item to the selector. Below capacity it is always admitted.
// At capacity it replaces the root only if it ranks strictly ahead of it;
// otherwise it is discarded.
func (s *Selector[T]) Push(item T) {
	if len(s.items) < cap(s.items) {
		s.items = append(s.items, item)
		s.siftUp(len(s.items) - 1)
		return
	}
	if !s.less(s.items[0], item) {
		return
	}
	s.items[0] = item
	s.siftDown(0)
}

// Top returns the worst of the retained elements without removing it.
func (s *Selector[T]) Top() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[0], true
}

// Pop removes and returns the worst of the retained elements.
func (s *Selector[T]) Pop() (T, bool) {
	var zero T
	n := len(s.items)
	if n == 0 {
		return zero, false
	}
	root := s.items[0]
	s.items[0] = s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	if n-1 > 0 {
		s.siftDown(0)
	}
	return root, true
}

// Data returns the retained elements in ascending order under less. The live
// heap is not modified.
func (s *Selector[T]) Data() []T {
	out := slices.Clone(s.items)
	slices.SortFunc(out, func(a, b T) int {
		switch {
		case s.less(a, b):
			return -1
		case s.less(b, a):
			return 1
		default:
			return 0
		}
	})
	return out
}

// Len returns the number of retained elements.
func (s *Selector[T]) Len() int { return len(s.items) }

// Cap returns K.
func (s *Selector[T]) Cap() int { return cap(s.items) }

// Empty reports whether nothing is retained.
func (s *Selector[T]) Empty() bool { return len(s.items) == 0 }

// Clear drops every retained element and keeps the buffer.
func (s *Selector[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

func (s *Selector[T]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !s.less(s.items[i], s.items[p]) {
			return
		}
		s.items[i], s.items[p] = s.items[p], s.items[i]
		i = p
	}
}

func (s *Selector[T]) siftDown(i int) {
	n := len(s.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && s.less(s.items[r], s.items[l]) {
			best = r
		}
		if !s.less(s.items[best], s.items[i]) {
			return
		}
		s.items[i], s.items[best] = s.items[best], s.items[i]
		i = best
	}
}
