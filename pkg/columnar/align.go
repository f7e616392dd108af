package columnar

import (
	"go.uber.org/zap"

	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/metrics"
)

// LoadAlignColumn builds a column as long as the index from coarse values
// that each summarize one period of stride rows. Value k is written to row
// k*stride when anchorAtStart is true, or to row (k+1)*stride otherwise; all
// other rows hold fill. Values whose row falls past the end of the index are
// dropped. An existing column called name is replaced.
//
// Only one row per period receives the coarse value; the rest of the period
// keeps fill.
func LoadAlignColumn[T any](f *Frame, name string, coarse []T, stride int, anchorAtStart bool, fill T) error {
	timer := metrics.NewTimer("load_align_column")

	if stride <= 0 {
		return f.finish(timer, errors.Newf(errors.ErrorTypeInvalidArgument,
			"stride must be positive, got %d", stride).WithDetail("column", name))
	}
	if name == "" {
		return f.finish(timer, errors.New(errors.ErrorTypeInvalidArgument, "column name cannot be empty"))
	}

	rows := f.IndexLen()
	out := make([]T, rows)
	for i := range out {
		out[i] = fill
	}

	offset := 0
	if !anchorAtStart {
		offset = stride
	}

	placed := 0
	for k, v := range coarse {
		row := offset + k*stride
		if row >= rows {
			break
		}
		out[row] = v
		placed++
	}
	f.columns[name] = newColumn(out)

	return f.finish(timer, nil, zap.String("column", name), zap.Int("stride", stride),
		zap.Bool("anchor_at_start", anchorAtStart), zap.Int("placed", placed),
		zap.Int("dropped", len(coarse)-placed))
}
