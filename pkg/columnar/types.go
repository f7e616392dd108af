package columnar

import (
	"math"
	"reflect"
	"slices"

	"github.com/colframe/colframe/pkg/view"
)

// Number is the set of element types Retype can reinterpret without a converter.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// NaNPolicy selects how LoadColumn treats a column shorter than the index.
type NaNPolicy int

const (
	// PadWithNaNs extends the column to the index length with NaN (floats)
	// or the zero value (every other type)
	PadWithNaNs NaNPolicy = iota
	// DontPadWithNaNs keeps the column at its natural length
	DontPadWithNaNs
)

// String implements fmt.Stringer
func (p NaNPolicy) String() string {
	if p == DontPadWithNaNs {
		return "dont_pad"
	}
	return "pad"
}

// Column is the type-erased handle of a stored or viewed column
type Column interface {
	Type() reflect.Type
	Len() int
	Get(i int) interface{}
	MemoryUsage() int64
}

// storage is a Column owned by a Frame
type storage interface {
	Column
	copyPrefix(n int) storage
	aliasPrefix(n int) Column
	padTo(n int) storage
}

// typedColumn owns a homogeneous slice
type typedColumn[T any] struct {
	data []T
}

func newColumn[T any](data []T) *typedColumn[T] {
	return &typedColumn[T]{data: data}
}

func (c *typedColumn[T]) Type() reflect.Type    { return reflect.TypeFor[T]() }
func (c *typedColumn[T]) Len() int              { return len(c.data) }
func (c *typedColumn[T]) Get(i int) interface{} { return c.data[i] }

func (c *typedColumn[T]) MemoryUsage() int64 {
	return int64(len(c.data)) * int64(reflect.TypeFor[T]().Size())
}

// copyPrefix deep-copies the first n elements
func (c *typedColumn[T]) copyPrefix(n int) storage {
	return newColumn(slices.Clone(c.data[:n]))
}

// aliasPrefix views the first n elements without copying
func (c *typedColumn[T]) aliasPrefix(n int) Column {
	return &viewColumn[T]{v: view.Range(c.data, 0, n)}
}

// padTo returns a column of length n filled with the NaN sentinel past the
// current length. The receiver is returned unchanged when already long enough.
func (c *typedColumn[T]) padTo(n int) storage {
	if len(c.data) >= n {
		return c
	}
	padded := make([]T, n)
	copy(padded, c.data)
	sentinel := nanValue[T]()
	for i := len(c.data); i < n; i++ {
		padded[i] = sentinel
	}
	return newColumn(padded)
}

// viewColumn aliases storage owned by another column
type viewColumn[T any] struct {
	v view.View[T]
}

func (c *viewColumn[T]) Type() reflect.Type    { return reflect.TypeFor[T]() }
func (c *viewColumn[T]) Len() int              { return c.v.Len() }
func (c *viewColumn[T]) Get(i int) interface{} { return c.v.At(i) }

// MemoryUsage is zero: a view owns nothing
func (c *viewColumn[T]) MemoryUsage() int64 { return 0 }

// nanValue returns the missing-value sentinel of T
func nanValue[T any]() T {
	var zero T
	rv := reflect.ValueOf(&zero).Elem()
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(math.NaN())
	}
	return zero
}

// NamedColumn pairs a name with column data for LoadData
type NamedColumn struct {
	name string
	col  storage
}

// Name returns the column name
func (n NamedColumn) Name() string { return n.name }

// Col builds a NamedColumn. The frame takes ownership of data.
func Col[T any](name string, data []T) NamedColumn {
	return NamedColumn{name: name, col: newColumn(data)}
}
