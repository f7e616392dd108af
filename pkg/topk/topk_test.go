package topk

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorKeepsLargest(t *testing.T) {
	s := New[int](3)
	for _, v := range []int{5, 1, 9, 3, 7, 2, 8} {
		s.Push(v)
	}

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.Cap())
	assert.Equal(t, []int{7, 8, 9}, s.Data())

	top, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, 7, top)
}

func TestSelectorBelowCapacity(t *testing.T) {
	s := New[float64](5)
	s.Push(2.5)
	s.Push(-1)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{-1, 2.5}, s.Data())
}

func TestSelectorIndependentOfArrivalOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	values := make([]int, 1000)
	for i := range values {
		values[i] = r.IntN(10000)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	want := sorted[len(sorted)-10:]

	for range 5 {
		r.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

		s := New[int](10)
		for _, v := range values {
			s.Push(v)
		}
		assert.Equal(t, want, s.Data())
	}
}

func TestSelectorDiscardsWorseThanTop(t *testing.T) {
	s := New[int](3)
	for _, v := range []int{10, 20, 30} {
		s.Push(v)
	}
	before := s.Data()

	s.Push(10)
	s.Push(5)
	assert.Equal(t, before, s.Data())
}

func TestSelectorCustomOrderingKeepsSmallest(t *testing.T) {
	s := NewFunc(2, func(a, b string) bool { return a > b })
	for _, v := range []string{"mm", "bb", "zz", "aa", "kk"} {
		s.Push(v)
	}

	// Ascending under the reversed ordering.
	assert.Equal(t, []string{"bb", "aa"}, s.Data())
}

func TestSelectorPopAndClear(t *testing.T) {
	s := New[int](4)
	for _, v := range []int{4, 2, 6, 8, 1} {
		s.Push(v)
	}

	var popped []int
	for !s.Empty() {
		v, ok := s.Pop()
		require.True(t, ok)
		popped = append(popped, v)
	}
	assert.Equal(t, []int{2, 4, 6, 8}, popped)

	_, ok := s.Pop()
	assert.False(t, ok)
	_, ok = s.Top()
	assert.False(t, ok)

	s.Push(3)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 4, s.Cap())
}

func TestDataDoesNotMutate(t *testing.T) {
	s := New[int](3)
	for _, v := range []int{3, 1, 2} {
		s.Push(v)
	}
	_ = s.Data()

	top, _ := s.Top()
	assert.Equal(t, 1, top)
	assert.Equal(t, 3, s.Len())
}

func TestNewPanicsOnBadCapacity(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
	assert.Panics(t, func() { NewFunc[int](1, nil) })
}
