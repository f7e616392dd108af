package columnar

import (
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/metrics"
)

// ToArrow exports f as an Arrow record for collaborators that consume Arrow
// arrays. The index comes first under FrameConfig.IndexColumnName, followed by
// the columns in name order. Columns shorter than the index are padded with
// nulls and float NaNs become nulls. The caller must Release the record.
// A nil allocator uses memory.NewGoAllocator.
func ToArrow(f *Frame, mem memory.Allocator) (arrow.Record, error) {
	timer := metrics.NewTimer("to_arrow")

	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if f.index == nil {
		return nil, f.finish(timer, errors.New(errors.ErrorTypeInvalidArgument, "frame has no index to export"))
	}
	indexName := f.cfg.IndexColumnName
	if f.HasColumn(indexName) {
		return nil, f.finish(timer, errors.New(errors.ErrorTypeInvalidArgument,
			fmt.Sprintf("index field name %q collides with a column", indexName)).
			WithDetail("column", indexName))
	}

	names := append([]string{indexName}, f.ColumnNames()...)
	cols := make([]storage, 0, len(names))
	cols = append(cols, f.index)
	for _, name := range names[1:] {
		cols = append(cols, f.columns[name])
	}

	rows := f.IndexLen()
	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		if col.Len() > rows {
			return nil, f.finish(timer, longerThanIndex(names[i], col.Len(), rows))
		}
		dt, err := arrowType(col)
		if err != nil {
			return nil, f.finish(timer, errors.Wrap(err, errors.ErrorTypeUnsupported,
				fmt.Sprintf("cannot export column %q", names[i])).WithDetail("column", names[i]))
		}
		fields[i] = arrow.Field{Name: names[i], Type: dt, Nullable: true}
	}

	schema := arrow.NewSchema(fields, nil)
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i, col := range cols {
		appendArrow(builder.Field(i), col, rows)
	}

	record := builder.NewRecord()
	return record, f.finish(timer, nil, zap.Int("rows", rows), zap.Int("fields", len(fields)))
}

// arrowType maps a column element type to its Arrow data type
func arrowType(col storage) (arrow.DataType, error) {
	switch col.(type) {
	case *typedColumn[int8]:
		return arrow.PrimitiveTypes.Int8, nil
	case *typedColumn[int16]:
		return arrow.PrimitiveTypes.Int16, nil
	case *typedColumn[int32]:
		return arrow.PrimitiveTypes.Int32, nil
	case *typedColumn[int64], *typedColumn[int]:
		return arrow.PrimitiveTypes.Int64, nil
	case *typedColumn[uint8]:
		return arrow.PrimitiveTypes.Uint8, nil
	case *typedColumn[uint16]:
		return arrow.PrimitiveTypes.Uint16, nil
	case *typedColumn[uint32]:
		return arrow.PrimitiveTypes.Uint32, nil
	case *typedColumn[uint64], *typedColumn[uint]:
		return arrow.PrimitiveTypes.Uint64, nil
	case *typedColumn[float32]:
		return arrow.PrimitiveTypes.Float32, nil
	case *typedColumn[float64]:
		return arrow.PrimitiveTypes.Float64, nil
	case *typedColumn[string]:
		return arrow.BinaryTypes.String, nil
	case *typedColumn[bool]:
		return arrow.FixedWidthTypes.Boolean, nil
	case *typedColumn[time.Time]:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	default:
		return nil, fmt.Errorf("no arrow type for %v", col.Type())
	}
}

// appendArrow fills b, whose type was chosen by arrowType, from col
func appendArrow(b array.Builder, col storage, rows int) {
	switch c := col.(type) {
	case *typedColumn[int8]:
		appendValues[int8](b.(*array.Int8Builder), c.data, rows)
	case *typedColumn[int16]:
		appendValues[int16](b.(*array.Int16Builder), c.data, rows)
	case *typedColumn[int32]:
		appendValues[int32](b.(*array.Int32Builder), c.data, rows)
	case *typedColumn[int64]:
		appendValues[int64](b.(*array.Int64Builder), c.data, rows)
	case *typedColumn[int]:
		appendConverted[int, int64](b.(*array.Int64Builder), c.data, rows, func(v int) int64 { return int64(v) })
	case *typedColumn[uint8]:
		appendValues[uint8](b.(*array.Uint8Builder), c.data, rows)
	case *typedColumn[uint16]:
		appendValues[uint16](b.(*array.Uint16Builder), c.data, rows)
	case *typedColumn[uint32]:
		appendValues[uint32](b.(*array.Uint32Builder), c.data, rows)
	case *typedColumn[uint64]:
		appendValues[uint64](b.(*array.Uint64Builder), c.data, rows)
	case *typedColumn[uint]:
		appendConverted[uint, uint64](b.(*array.Uint64Builder), c.data, rows, func(v uint) uint64 { return uint64(v) })
	case *typedColumn[float32]:
		appendFloats[float32](b.(*array.Float32Builder), c.data, rows)
	case *typedColumn[float64]:
		appendFloats[float64](b.(*array.Float64Builder), c.data, rows)
	case *typedColumn[string]:
		appendValues[string](b.(*array.StringBuilder), c.data, rows)
	case *typedColumn[bool]:
		appendValues[bool](b.(*array.BooleanBuilder), c.data, rows)
	case *typedColumn[time.Time]:
		appendConverted[time.Time, arrow.Timestamp](b.(*array.TimestampBuilder), c.data, rows,
			func(t time.Time) arrow.Timestamp { return arrow.Timestamp(t.UnixNano()) })
	}
}

type appender[T any] interface {
	Append(T)
	AppendNull()
}

func appendValues[T any](b appender[T], data []T, rows int) {
	for _, v := range data {
		b.Append(v)
	}
	for i := len(data); i < rows; i++ {
		b.AppendNull()
	}
}

func appendConverted[S, T any](b appender[T], data []S, rows int, conv func(S) T) {
	for _, v := range data {
		b.Append(conv(v))
	}
	for i := len(data); i < rows; i++ {
		b.AppendNull()
	}
}

func appendFloats[T float32 | float64](b appender[T], data []T, rows int) {
	for _, v := range data {
		if math.IsNaN(float64(v)) {
			b.AppendNull()
			continue
		}
		b.Append(v)
	}
	for i := len(data); i < rows; i++ {
		b.AppendNull()
	}
}
