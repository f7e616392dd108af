package columnar

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"

	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/metrics"
	"github.com/colframe/colframe/pkg/view"
)

// reindexPlan is the validated input of a reindex
type reindexPlan[T any] struct {
	column       string
	oldIndexName string
	newIndex     *typedColumn[T]
	newLen       int
}

// planReindex checks every precondition before anything is built, so a
// failed reindex never leaves partial output behind
func planReindex[T any](f *Frame, column, oldIndexName string) (reindexPlan[T], error) {
	src, err := typedStorage[T](f, column)
	if err != nil {
		return reindexPlan[T]{}, err
	}
	if oldIndexName == "" {
		return reindexPlan[T]{}, errors.New(errors.ErrorTypeInvalidArgument, "old index column name cannot be empty")
	}
	if _, exists := f.columns[oldIndexName]; exists {
		return reindexPlan[T]{}, errors.New(errors.ErrorTypeInvalidArgument,
			fmt.Sprintf("old index column name %q collides with an existing column", oldIndexName)).
			WithDetail("column", oldIndexName)
	}
	if f.index == nil {
		return reindexPlan[T]{}, errors.New(errors.ErrorTypeInvalidArgument, "frame has no index to relocate")
	}

	newLen := src.Len()
	if newLen > f.index.Len() {
		return reindexPlan[T]{}, errors.New(errors.ErrorTypeInvalidArgument,
			fmt.Sprintf("column %q has %d values, more than the %d rows of the index it replaces",
				column, newLen, f.index.Len())).
			WithDetail("column", column)
	}

	return reindexPlan[T]{
		column:       column,
		oldIndexName: oldIndexName,
		newIndex:     src,
		newLen:       newLen,
	}, nil
}

// Reindex returns a deep copy of f in which column (declared as element type
// T) is the index. The old index becomes the column oldIndexName, truncated to
// the new row count, and every other column is truncated to at most the new
// row count. Shorter columns are left as they are. f is not modified.
func Reindex[T any](f *Frame, column, oldIndexName string) (*Frame, error) {
	timer := metrics.NewTimer("reindex")

	plan, err := planReindex[T](f, column, oldIndexName)
	if err != nil {
		return nil, f.finish(timer, err, zap.String("column", column))
	}

	out := f.derive()
	out.index = plan.newIndex.copyPrefix(plan.newLen)
	out.columns[oldIndexName] = f.index.copyPrefix(plan.newLen)
	for name, col := range f.columns {
		if name == column {
			continue
		}
		out.columns[name] = col.copyPrefix(min(col.Len(), plan.newLen))
	}

	return out, f.finish(timer, nil, zap.String("column", column),
		zap.String("old_index", oldIndexName), zap.Int("rows", plan.newLen))
}

// ReindexView is Reindex without copying: the result aliases f's storage and
// writes through its views are writes to f. The result is valid only while f
// does not resize or reload the aliased columns.
func ReindexView[T any](f *Frame, column, oldIndexName string) (*ViewFrame, error) {
	return reindexView[T](f, column, oldIndexName, false)
}

// ReindexConstView is ReindexView whose result only hands out read-only views.
func ReindexConstView[T any](f *Frame, column, oldIndexName string) (*ViewFrame, error) {
	return reindexView[T](f, column, oldIndexName, true)
}

func reindexView[T any](f *Frame, column, oldIndexName string, readOnly bool) (*ViewFrame, error) {
	timer := metrics.NewTimer("reindex_view")

	plan, err := planReindex[T](f, column, oldIndexName)
	if err != nil {
		return nil, f.finish(timer, err, zap.String("column", column))
	}

	out := &ViewFrame{
		index:    plan.newIndex.aliasPrefix(plan.newLen),
		columns:  make(map[string]Column, len(f.columns)),
		readOnly: readOnly,
	}
	out.columns[oldIndexName] = f.index.aliasPrefix(plan.newLen)
	for name, col := range f.columns {
		if name == column {
			continue
		}
		out.columns[name] = col.aliasPrefix(min(col.Len(), plan.newLen))
	}

	return out, f.finish(timer, nil, zap.String("column", column),
		zap.String("old_index", oldIndexName), zap.Int("rows", plan.newLen), zap.Bool("read_only", readOnly))
}

// ViewFrame is a frame whose index and columns alias another frame's storage.
// It owns no element memory.
type ViewFrame struct {
	index    Column
	columns  map[string]Column
	readOnly bool
}

// ReadOnly reports whether only ConstView access is allowed
func (vf *ViewFrame) ReadOnly() bool { return vf.readOnly }

// IndexLen returns the number of rows of the index
func (vf *ViewFrame) IndexLen() int { return vf.index.Len() }

// HasColumn reports whether a column exists
func (vf *ViewFrame) HasColumn(name string) bool {
	_, ok := vf.columns[name]
	return ok
}

// ColumnNames returns all column names in sorted order
func (vf *ViewFrame) ColumnNames() []string {
	names := make([]string, 0, len(vf.columns))
	for name := range vf.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Column returns the type-erased handle of a column
func (vf *ViewFrame) Column(name string) (Column, error) {
	col, ok := vf.columns[name]
	if !ok {
		return nil, columnNotFound(name)
	}
	return col, nil
}

// ViewColumn returns a mutable view of a column. It fails with
// ErrorTypeReadOnly on a frame built by ReindexConstView.
func ViewColumn[T any](vf *ViewFrame, name string) (view.View[T], error) {
	col, ok := vf.columns[name]
	if !ok {
		return view.View[T]{}, columnNotFound(name)
	}
	typed, ok := col.(*viewColumn[T])
	if !ok {
		return view.View[T]{}, typeMismatch(name, col.Type(), reflect.TypeFor[T]())
	}
	if vf.readOnly {
		return view.View[T]{}, readOnly(name)
	}
	return typed.v, nil
}

// ConstViewColumn returns a read-only view of a column
func ConstViewColumn[T any](vf *ViewFrame, name string) (view.ConstView[T], error) {
	col, ok := vf.columns[name]
	if !ok {
		return view.ConstView[T]{}, columnNotFound(name)
	}
	typed, ok := col.(*viewColumn[T])
	if !ok {
		return view.ConstView[T]{}, typeMismatch(name, col.Type(), reflect.TypeFor[T]())
	}
	return typed.v.Const(), nil
}

// ViewIndex returns a mutable view of the index
func ViewIndex[I any](vf *ViewFrame) (view.View[I], error) {
	typed, ok := vf.index.(*viewColumn[I])
	if !ok {
		return view.View[I]{}, typeMismatch("index", vf.index.Type(), reflect.TypeFor[I]())
	}
	if vf.readOnly {
		return view.View[I]{}, readOnly("index")
	}
	return typed.v, nil
}

// ConstViewIndex returns a read-only view of the index
func ConstViewIndex[I any](vf *ViewFrame) (view.ConstView[I], error) {
	typed, ok := vf.index.(*viewColumn[I])
	if !ok {
		return view.ConstView[I]{}, typeMismatch("index", vf.index.Type(), reflect.TypeFor[I]())
	}
	return typed.v.Const(), nil
}

func readOnly(name string) error {
	return errors.New(errors.ErrorTypeReadOnly,
		fmt.Sprintf("column %q belongs to a read-only view", name)).
		WithDetail("column", name)
}
