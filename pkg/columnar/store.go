package columnar

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"

	"github.com/colframe/colframe/pkg/config"
	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/metrics"
)

// Frame owns a row index and a set of named, independently typed columns.
//
// The index may hold duplicate or unordered keys. Columns may be shorter than
// the index. A Frame has no internal locking: it belongs to one owner, and
// that owner must not resize or reload columns while views over them (from
// ReindexView or GetColumn) are in use.
type Frame struct {
	name    string
	index   storage
	columns map[string]storage
	cfg     config.FrameConfig
	logger  *zap.Logger
	metrics *metrics.Collector
}

// Option configures a Frame
type Option func(*Frame)

// WithName sets the frame name used in logs and metrics
func WithName(name string) Option {
	return func(f *Frame) { f.name = name }
}

// WithLogger sets the logger of the frame
func WithLogger(logger *zap.Logger) Option {
	return func(f *Frame) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithConfig sets the frame configuration
func WithConfig(cfg config.FrameConfig) Option {
	return func(f *Frame) { f.cfg = cfg }
}

// WithMetrics sets the metrics collector of the frame
func WithMetrics(c *metrics.Collector) Option {
	return func(f *Frame) { f.metrics = c }
}

// NewFrame creates an empty frame
func NewFrame(opts ...Option) *Frame {
	f := &Frame{
		name:    "frame",
		columns: make(map[string]storage),
		cfg:     config.NewConfig().Frame,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// derive returns an empty frame sharing f's name, config, logger and metrics
func (f *Frame) derive() *Frame {
	return &Frame{
		name:    f.name,
		columns: make(map[string]storage, len(f.columns)+1),
		cfg:     f.cfg,
		logger:  f.logger,
		metrics: f.metrics,
	}
}

// Name returns the frame name
func (f *Frame) Name() string { return f.name }

// IndexLen returns the number of rows of the index
func (f *Frame) IndexLen() int {
	if f.index == nil {
		return 0
	}
	return f.index.Len()
}

// IndexType returns the element type of the index, or nil before LoadIndex
func (f *Frame) IndexType() reflect.Type {
	if f.index == nil {
		return nil
	}
	return f.index.Type()
}

// HasColumn reports whether a column exists
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// ColumnNames returns all column names in sorted order
func (f *Frame) ColumnNames() []string {
	names := make([]string, 0, len(f.columns))
	for name := range f.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColumnCount returns the number of columns
func (f *Frame) ColumnCount() int { return len(f.columns) }

// Column returns the type-erased handle of a column
func (f *Frame) Column(name string) (Column, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, columnNotFound(name)
	}
	return col, nil
}

// ColumnType returns the stored element type of a column
func (f *Frame) ColumnType(name string) (reflect.Type, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, columnNotFound(name)
	}
	return col.Type(), nil
}

// ColumnLen returns the length of a column
func (f *Frame) ColumnLen(name string) (int, error) {
	col, ok := f.columns[name]
	if !ok {
		return 0, columnNotFound(name)
	}
	return col.Len(), nil
}

// RemoveColumn deletes a column
func (f *Frame) RemoveColumn(name string) error {
	if _, ok := f.columns[name]; !ok {
		return columnNotFound(name)
	}
	delete(f.columns, name)
	f.logger.Debug("column removed", zap.String("column", name))
	return nil
}

// RenameColumn renames a column. The new name must not be in use.
func (f *Frame) RenameColumn(from, to string) error {
	col, ok := f.columns[from]
	if !ok {
		return columnNotFound(from)
	}
	if to == "" {
		return errors.New(errors.ErrorTypeInvalidArgument, "column name cannot be empty")
	}
	if _, exists := f.columns[to]; exists {
		return errors.New(errors.ErrorTypeInvalidArgument, fmt.Sprintf("column %q already exists", to)).
			WithDetail("column", to)
	}
	delete(f.columns, from)
	f.columns[to] = col
	return nil
}

// MemoryUsage returns the bytes held by the index and every column
func (f *Frame) MemoryUsage() int64 {
	var total int64
	if f.index != nil {
		total += f.index.MemoryUsage()
	}
	for name, col := range f.columns {
		total += int64(len(name))
		total += col.MemoryUsage()
	}
	return total
}

// LoadIndex replaces the index. Existing columns are kept as they are and
// must not be longer than the new index. The frame takes ownership of index.
func LoadIndex[I any](f *Frame, index []I) error {
	timer := metrics.NewTimer("load_index")
	for _, name := range f.ColumnNames() {
		if n := f.columns[name].Len(); n > len(index) {
			return f.finish(timer, longerThanIndex(name, n, len(index)))
		}
	}
	f.index = newColumn(index)
	return f.finish(timer, nil, zap.Int("rows", len(index)))
}

// LoadData replaces the index and loads every column with the configured NaN
// policy. Either everything loads or the frame is left unchanged.
//
// Example:
//
//	err := columnar.LoadData(frame, []uint64{1, 2, 3},
//		columnar.Col("price", []float64{10.5, 11, 9.75}),
//		columnar.Col("ticker", []string{"A", "B", "C"}))
func LoadData[I any](f *Frame, index []I, cols ...NamedColumn) error {
	timer := metrics.NewTimer("load_data")

	policy := DontPadWithNaNs
	if f.cfg.PadsWithNaNs() {
		policy = PadWithNaNs
	}

	seen := make(map[string]struct{}, len(cols))
	for _, nc := range cols {
		if nc.name == "" {
			return f.finish(timer, errors.New(errors.ErrorTypeInvalidArgument, "column name cannot be empty"))
		}
		if nc.col == nil {
			return f.finish(timer, errors.New(errors.ErrorTypeInvalidArgument,
				fmt.Sprintf("column %q has no data; build it with Col", nc.name)).WithDetail("column", nc.name))
		}
		if _, dup := seen[nc.name]; dup {
			return f.finish(timer, errors.New(errors.ErrorTypeInvalidArgument,
				fmt.Sprintf("column %q given twice", nc.name)).WithDetail("column", nc.name))
		}
		seen[nc.name] = struct{}{}
		if nc.col.Len() > len(index) {
			return f.finish(timer, longerThanIndex(nc.name, nc.col.Len(), len(index)))
		}
	}

	f.index = newColumn(index)
	for _, nc := range cols {
		col := nc.col
		if policy == PadWithNaNs {
			col = col.padTo(len(index))
		}
		f.columns[nc.name] = col
	}
	return f.finish(timer, nil, zap.Int("rows", len(index)), zap.Int("columns", len(cols)))
}

// LoadColumn attaches one column, replacing any column of the same name.
// The column must not be longer than the index. The frame takes ownership of
// data unless padding copies it.
func LoadColumn[T any](f *Frame, name string, data []T, policy NaNPolicy) error {
	timer := metrics.NewTimer("load_column")

	if name == "" {
		return f.finish(timer, errors.New(errors.ErrorTypeInvalidArgument, "column name cannot be empty"))
	}
	if len(data) > f.IndexLen() {
		return f.finish(timer, longerThanIndex(name, len(data), f.IndexLen()))
	}

	var col storage = newColumn(data)
	if policy == PadWithNaNs {
		col = col.padTo(f.IndexLen())
	}
	f.columns[name] = col
	return f.finish(timer, nil, zap.String("column", name), zap.Int("length", col.Len()),
		zap.Stringer("nan_policy", policy))
}

// GetColumn returns the stored slice of a column. The slice aliases the
// frame's storage: writes through it are writes to the frame.
func GetColumn[T any](f *Frame, name string) ([]T, error) {
	col, err := typedStorage[T](f, name)
	if err != nil {
		return nil, err
	}
	return col.data, nil
}

// GetIndex returns the stored index slice, aliasing the frame's storage
func GetIndex[I any](f *Frame) ([]I, error) {
	if f.index == nil {
		return nil, errors.New(errors.ErrorTypeColumnNotFound, "index has not been loaded")
	}
	idx, ok := f.index.(*typedColumn[I])
	if !ok {
		return nil, typeMismatch("index", f.index.Type(), reflect.TypeFor[I]())
	}
	return idx.data, nil
}

// typedStorage looks up a column and checks its element type
func typedStorage[T any](f *Frame, name string) (*typedColumn[T], error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, columnNotFound(name)
	}
	typed, ok := col.(*typedColumn[T])
	if !ok {
		return nil, typeMismatch(name, col.Type(), reflect.TypeFor[T]())
	}
	return typed, nil
}

// finish records metrics and logs the outcome of an operation on f
func (f *Frame) finish(timer *metrics.Timer, err error, fields ...zap.Field) error {
	f.metrics.ObserveOperation(timer, err)

	fields = append(fields, zap.String("frame", f.name), zap.String("operation", timer.Name()))
	if err != nil {
		f.logger.Warn("frame operation failed", append(fields, zap.Error(err))...)
		return err
	}
	f.metrics.SetIndexLength(f.name, f.IndexLen())
	f.logger.Debug("frame operation completed", fields...)
	return nil
}

func columnNotFound(name string) error {
	return errors.New(errors.ErrorTypeColumnNotFound, fmt.Sprintf("column %q does not exist", name)).
		WithDetail("column", name)
}

func typeMismatch(name string, stored, requested reflect.Type) error {
	return errors.New(errors.ErrorTypeTypeMismatch,
		fmt.Sprintf("column %q stores %v, requested %v", name, stored, requested)).
		WithDetail("column", name).
		WithDetail("stored", stored.String()).
		WithDetail("requested", requested.String())
}

func longerThanIndex(name string, n, indexLen int) error {
	return errors.New(errors.ErrorTypeInvalidArgument,
		fmt.Sprintf("column %q has %d values but the index has %d rows", name, n, indexLen)).
		WithDetail("column", name)
}
