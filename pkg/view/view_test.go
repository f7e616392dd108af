package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewBasics(t *testing.T) {
	data := []int{10, 20, 30, 40, 50}
	v := Of(data)

	assert.Equal(t, 5, v.Len())
	assert.Equal(t, 5, v.Cap())
	assert.False(t, v.Empty())
	assert.Equal(t, 10, v.Front())
	assert.Equal(t, 50, v.Back())
	assert.Equal(t, 30, v.At(2))

	v.Reserve(100)
	v.ShrinkToFit()
	assert.Equal(t, 5, v.Cap())
}

func TestViewIteratesForwardAndBackward(t *testing.T) {
	v := Of([]string{"a", "b", "c"})

	var forward, backward []string
	for _, s := range v.All() {
		forward = append(forward, s)
	}
	for _, s := range v.Backward() {
		backward = append(backward, s)
	}
	assert.Equal(t, []string{"a", "b", "c"}, forward)
	assert.Equal(t, []string{"c", "b", "a"}, backward)

	n := 0
	for it := v.Begin(); !it.Equal(v.End()); it.Next() {
		n++
	}
	assert.Equal(t, 3, n)

	var rev []string
	for it := v.End(); it.Pos() > 0; {
		it.Prev()
		rev = append(rev, it.Value())
	}
	assert.Equal(t, []string{"c", "b", "a"}, rev)
}

func TestViewEarlyBreak(t *testing.T) {
	v := Of([]int{1, 2, 3, 4})

	var seen []int
	for i, x := range v.Backward() {
		if i < 2 {
			break
		}
		seen = append(seen, x)
	}
	assert.Equal(t, []int{4, 3}, seen)
}

func TestViewWritesAreShared(t *testing.T) {
	data := []float64{1, 2, 3}
	a := Of(data)
	b := Range(data, 1, 3)

	a.Set(1, 99)
	assert.Equal(t, 99.0, data[1])
	assert.Equal(t, 99.0, b.Front())

	*b.Ptr(1) = 7
	assert.Equal(t, 7.0, a.Back())

	it := a.Begin().Add(2)
	it.Set(8)
	assert.Equal(t, 8.0, data[2])
}

func TestViewSliceIsClipped(t *testing.T) {
	data := make([]int, 3, 10)
	v := Range(data, 0, 2)

	s := append(v.Slice(), 42)
	assert.Equal(t, 0, data[2])
	assert.Equal(t, []int{0, 0, 42}, s)
}

func TestInclusive(t *testing.T) {
	v := Inclusive([]int{1, 2, 3, 4, 5}, 1, 3)
	assert.Equal(t, []int{2, 3, 4}, v.Clone())
}

func TestIteratorArithmetic(t *testing.T) {
	v := Of([]int{0, 1, 2, 3, 4, 5})
	begin, end := v.Begin(), v.End()

	assert.Equal(t, 6, end.Distance(begin))
	assert.Equal(t, -6, begin.Distance(end))
	assert.True(t, begin.Less(end))

	it := begin
	it.Advance(4)
	assert.Equal(t, 4, it.Value())
	it.Advance(-3)
	assert.Equal(t, 1, it.Value())
	assert.True(t, it.Valid())
	assert.False(t, end.Valid())
}

func TestClearAndSwap(t *testing.T) {
	a := Of([]int{1, 2})
	b := Of([]int{3, 4, 5})

	a.Swap(&b)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 2, b.Len())

	a.Clear()
	assert.True(t, a.Empty())
	assert.Equal(t, 0, a.Len())
}

func TestBindDetectsReallocation(t *testing.T) {
	owner := make([]int, 3, 3)
	v := Bind(&owner)
	require.False(t, v.Stale())

	owner[0] = 5
	assert.Equal(t, 5, v.Front())

	owner = append(owner, 4)
	assert.True(t, v.Stale())

	// The stale view still reads the old array, never the new one.
	owner[0] = 6
	assert.Equal(t, 5, v.Front())

	v.Rebind(owner)
	assert.False(t, v.Stale())
	assert.Equal(t, 6, v.Front())
}

func TestBindDetectsShrink(t *testing.T) {
	owner := []int{1, 2, 3}
	v := Bind(&owner)

	owner = owner[:1]
	assert.True(t, v.Stale())
	assert.False(t, Of(owner).Stale())
}

func TestConstView(t *testing.T) {
	data := []int{7, 8, 9}
	c := Of(data).Const()

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 7, c.Front())
	assert.Equal(t, 9, c.Back())

	data[0] = 1
	assert.Equal(t, 1, c.At(0))

	var out []int
	for it := c.Begin(); it.Less(c.End()); it.Next() {
		out = append(out, it.Value())
	}
	assert.Equal(t, []int{1, 8, 9}, out)
	assert.Equal(t, 3, c.End().Distance(c.Begin()))

	r := RangeConst(data, 1, 2)
	assert.Equal(t, []int{8}, r.Clone())
	assert.False(t, OfConst(data).Empty())
}
