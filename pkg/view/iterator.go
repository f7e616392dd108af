package view

// Iterator is a random-access position within a View. Positions range from 0
// (Begin) to Len (End); only positions below Len may be dereferenced.
type Iterator[T any] struct {
	data []T
	pos  int
}

// Valid reports whether the iterator may be dereferenced.
func (it Iterator[T]) Valid() bool { return it.pos >= 0 && it.pos < len(it.data) }

// Pos returns the element offset of the iterator.
func (it Iterator[T]) Pos() int { return it.pos }

// Value returns the element at the iterator.
func (it Iterator[T]) Value() T { return it.data[it.pos] }

// Set stores x at the iterator.
func (it Iterator[T]) Set(x T) { it.data[it.pos] = x }

// Next moves one element forward.
func (it *Iterator[T]) Next() { it.pos++ }

// Prev moves one element backward.
func (it *Iterator[T]) Prev() { it.pos-- }

// Advance moves n elements; n may be negative.
func (it *Iterator[T]) Advance(n int) { it.pos += n }

// Add returns an iterator n elements away.
func (it Iterator[T]) Add(n int) Iterator[T] {
	it.pos += n
	return it
}

// Distance returns the number of elements from other to it.
func (it Iterator[T]) Distance(other Iterator[T]) int { return it.pos - other.pos }

// Equal reports whether both iterators are at the same position.
func (it Iterator[T]) Equal(other Iterator[T]) bool { return it.pos == other.pos }

// Less reports whether it is before other.
func (it Iterator[T]) Less(other Iterator[T]) bool { return it.pos < other.pos }

// ConstIterator is an Iterator without Set.
type ConstIterator[T any] struct {
	it Iterator[T]
}

// Valid reports whether the iterator may be dereferenced.
func (c ConstIterator[T]) Valid() bool { return c.it.Valid() }

// Pos returns the element offset of the iterator.
func (c ConstIterator[T]) Pos() int { return c.it.Pos() }

// Value returns the element at the iterator.
func (c ConstIterator[T]) Value() T { return c.it.Value() }

// Next moves one element forward.
func (c *ConstIterator[T]) Next() { c.it.Next() }

// Prev moves one element backward.
func (c *ConstIterator[T]) Prev() { c.it.Prev() }

// Advance moves n elements; n may be negative.
func (c *ConstIterator[T]) Advance(n int) { c.it.Advance(n) }

// Add returns an iterator n elements away.
func (c ConstIterator[T]) Add(n int) ConstIterator[T] { return ConstIterator[T]{it: c.it.Add(n)} }

// Distance returns the number of elements from other to c.
func (c ConstIterator[T]) Distance(other ConstIterator[T]) int { return c.it.Distance(other.it) }

// Equal reports whether both iterators are at the same position.
func (c ConstIterator[T]) Equal(other ConstIterator[T]) bool { return c.it.Equal(other.it) }

// Less reports whether c is before other.
func (c ConstIterator[T]) Less(other ConstIterator[T]) bool { return c.it.Less(other.it) }
