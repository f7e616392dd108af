package columnar

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/metrics"
)

// CastNumber converts v with Go's numeric conversion rules. Integer to
// integer conversions keep the low bits of the two's complement
// representation, so a negative value cast to an unsigned type wraps
// (int32(-1) becomes uint32(4294967295)) instead of clamping. Float to integer
// conversions truncate toward zero.
func CastNumber[From, To Number](v From) To {
	return To(v)
}

// Retype reinterprets the element type of column from Old to New in place
// using CastNumber on every element. Name, length and row order are kept.
func Retype[Old, New Number](f *Frame, column string) error {
	timer := metrics.NewTimer("retype")

	src, err := typedStorage[Old](f, column)
	if err != nil {
		return f.finish(timer, err, zap.String("column", column))
	}

	converted := make([]New, len(src.data))
	for i, v := range src.data {
		converted[i] = CastNumber[Old, New](v)
	}
	f.columns[column] = newColumn(converted)

	return f.finish(timer, nil, zap.String("column", column),
		zap.Stringer("from", src.Type()), zap.Stringer("to", f.columns[column].Type()))
}

// RetypeFunc converts column from Old to New with conv, applied in index
// order. The column is replaced only if every element converts; on the first
// failure the frame is left untouched and an ErrorTypeConversion error
// carrying the element position is returned.
func RetypeFunc[Old, New any](f *Frame, column string, conv func(Old) (New, error)) error {
	timer := metrics.NewTimer("retype")

	if conv == nil {
		return f.finish(timer, errors.New(errors.ErrorTypeInvalidArgument, "converter cannot be nil"),
			zap.String("column", column))
	}
	src, err := typedStorage[Old](f, column)
	if err != nil {
		return f.finish(timer, err, zap.String("column", column))
	}

	converted := make([]New, len(src.data))
	for i, v := range src.data {
		out, err := conv(v)
		if err != nil {
			return f.finish(timer, errors.Wrap(err, errors.ErrorTypeConversion,
				fmt.Sprintf("cannot convert element %d of column %q", i, column)).
				WithDetail("column", column).
				WithDetail("position", i), zap.String("column", column))
		}
		converted[i] = out
	}
	f.columns[column] = newColumn(converted)

	return f.finish(timer, nil, zap.String("column", column),
		zap.Stringer("from", src.Type()), zap.Stringer("to", f.columns[column].Type()))
}
