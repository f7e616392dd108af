// Package view provides non-owning views over contiguous slices.
//
// A View aliases the backing array of a slice it does not own: reads and
// writes go straight to the owner's memory, and a write through any view is
// visible through every other alias of the same array. Capacity operations
// (Reserve, ShrinkToFit) are no-ops because a view has nothing to reallocate.
//
// # Invalidation
//
// A view stays bound to the array it was created over. If the owner later
// grows past its capacity (append) or is reloaded, the owner moves to a new
// array and the view silently keeps reading the old one. Go keeps the old
// array alive, so this is never a memory error, but it is a stale read. Views
// created with Bind remember the owner and report this through Stale; views
// created with Of or Range cannot detect it and rely on the caller not
// resizing the owner while the view is in use.
package view

import (
	"iter"
	"unsafe"
)

// View is a mutable, non-owning window over a slice.
// The zero value is an empty view.
type View[T any] struct {
	data []T

	// set by Bind
	owner *[]T
	base  *T
}

// Of returns a view over all of s.
func Of[T any](s []T) View[T] {
	return View[T]{data: s[:len(s):len(s)]}
}

// Range returns a view over s[begin:end]. It panics if the bounds are invalid,
// like the equivalent slice expression.
func Range[T any](s []T, begin, end int) View[T] {
	return View[T]{data: s[begin:end:end]}
}

// Inclusive returns a view over s[first] through s[last], both included.
func Inclusive[T any](s []T, first, last int) View[T] {
	return Range(s, first, last+1)
}

// Bind returns a view over the whole of *owner that remembers the owner, so
// Stale reports when the owner has been reallocated or shrunk.
func Bind[T any](owner *[]T) View[T] {
	v := Of(*owner)
	v.owner = owner
	v.base = unsafe.SliceData(*owner)
	return v
}

// Rebind points the view at the current contents of s, dropping any owner
// recorded by Bind.
func (v *View[T]) Rebind(s []T) {
	*v = Of(s)
}

// Stale reports whether the owner recorded by Bind no longer backs the view.
// It is always false for views that were not created with Bind.
func (v View[T]) Stale() bool {
	if v.owner == nil {
		return false
	}
	return unsafe.SliceData(*v.owner) != v.base || len(*v.owner) < len(v.data)
}

// Len returns the number of elements in the view.
func (v View[T]) Len() int { return len(v.data) }

// Cap equals Len; a view cannot grow in place.
func (v View[T]) Cap() int { return len(v.data) }

// Empty reports whether the view has no elements.
func (v View[T]) Empty() bool { return len(v.data) == 0 }

// At returns element i.
func (v View[T]) At(i int) T { return v.data[i] }

// Ptr returns a pointer to element i in the aliased array.
func (v View[T]) Ptr(i int) *T { return &v.data[i] }

// Set stores x at element i of the aliased array.
func (v View[T]) Set(i int, x T) { v.data[i] = x }

// Front returns the first element.
func (v View[T]) Front() T { return v.data[0] }

// Back returns the last element.
func (v View[T]) Back() T { return v.data[len(v.data)-1] }

// Slice returns the aliased elements. Writes to the result are writes to the
// owner; the capacity is clipped so appending to it never clobbers the owner.
func (v View[T]) Slice() []T { return v.data }

// Clone copies the viewed elements into a new owned slice.
func (v View[T]) Clone() []T {
	out := make([]T, len(v.data))
	copy(out, v.data)
	return out
}

// Reserve is a no-op.
func (v View[T]) Reserve(int) {}

// ShrinkToFit is a no-op.
func (v View[T]) ShrinkToFit() {}

// Clear unbinds the view. The aliased elements are not modified.
func (v *View[T]) Clear() { *v = View[T]{} }

// Swap exchanges the bindings of two views.
func (v *View[T]) Swap(other *View[T]) { *v, *other = *other, *v }

// Const returns a read-only view over the same elements.
func (v View[T]) Const() ConstView[T] { return ConstView[T]{v: v} }

// All iterates the view front to back.
func (v View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range v.data {
			if !yield(i, x) {
				return
			}
		}
	}
}

// Backward iterates the view back to front.
func (v View[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := len(v.data) - 1; i >= 0; i-- {
			if !yield(i, v.data[i]) {
				return
			}
		}
	}
}

// Begin returns an iterator at the first element.
func (v View[T]) Begin() Iterator[T] { return Iterator[T]{data: v.data} }

// End returns an iterator one past the last element.
func (v View[T]) End() Iterator[T] { return Iterator[T]{data: v.data, pos: len(v.data)} }

// ConstView is a read-only, non-owning window over a slice. It shares the
// invalidation rules of View.
type ConstView[T any] struct {
	v View[T]
}

// OfConst returns a read-only view over all of s.
func OfConst[T any](s []T) ConstView[T] { return ConstView[T]{v: Of(s)} }

// RangeConst returns a read-only view over s[begin:end].
func RangeConst[T any](s []T, begin, end int) ConstView[T] {
	return ConstView[T]{v: Range(s, begin, end)}
}

// Len returns the number of elements in the view.
func (c ConstView[T]) Len() int { return c.v.Len() }

// Cap equals Len.
func (c ConstView[T]) Cap() int { return c.v.Cap() }

// Empty reports whether the view has no elements.
func (c ConstView[T]) Empty() bool { return c.v.Empty() }

// At returns element i.
func (c ConstView[T]) At(i int) T { return c.v.At(i) }

// Front returns the first element.
func (c ConstView[T]) Front() T { return c.v.Front() }

// Back returns the last element.
func (c ConstView[T]) Back() T { return c.v.Back() }

// Clone copies the viewed elements into a new owned slice.
func (c ConstView[T]) Clone() []T { return c.v.Clone() }

// Stale reports whether a bound owner has been reallocated.
func (c ConstView[T]) Stale() bool { return c.v.Stale() }

// Reserve is a no-op.
func (c ConstView[T]) Reserve(int) {}

// ShrinkToFit is a no-op.
func (c ConstView[T]) ShrinkToFit() {}

// All iterates the view front to back.
func (c ConstView[T]) All() iter.Seq2[int, T] { return c.v.All() }

// Backward iterates the view back to front.
func (c ConstView[T]) Backward() iter.Seq2[int, T] { return c.v.Backward() }

// Begin returns an iterator at the first element.
func (c ConstView[T]) Begin() ConstIterator[T] { return ConstIterator[T]{it: c.v.Begin()} }

// End returns an iterator one past the last element.
func (c ConstView[T]) End() ConstIterator[T] { return ConstIterator[T]{it: c.v.End()} }
