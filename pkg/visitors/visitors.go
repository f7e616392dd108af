// Package visitors computes selections and summaries over column views.
//
// Visitors only read: they take a view.ConstView, or look a column up in a
// Frame and wrap it in one, and never modify the frame.
package visitors

import (
	"cmp"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/colframe/colframe/pkg/columnar"
	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/topk"
	"github.com/colframe/colframe/pkg/view"
)

// NLargest returns the n largest values of v, largest first. Fewer than n
// values are returned when v is shorter. Float NaNs order below every number.
func NLargest[T cmp.Ordered](v view.ConstView[T], n int) []T {
	if n <= 0 || v.Empty() {
		return nil
	}
	sel := topk.New[T](min(n, v.Len()))
	for _, x := range v.All() {
		sel.Push(x)
	}
	out := sel.Data()
	slices.Reverse(out)
	return out
}

// NSmallest returns the n smallest values of v, smallest first
func NSmallest[T cmp.Ordered](v view.ConstView[T], n int) []T {
	return TopBy(v, n, func(a, b T) bool { return cmp.Less(b, a) })
}

// TopBy returns the n greatest values of v under less, greatest first
func TopBy[T any](v view.ConstView[T], n int, less func(a, b T) bool) []T {
	if n <= 0 || v.Empty() {
		return nil
	}
	sel := topk.NewFunc(min(n, v.Len()), less)
	for _, x := range v.All() {
		sel.Push(x)
	}
	out := sel.Data()
	slices.Reverse(out)
	return out
}

// Sum adds the values of v, skipping NaNs
func Sum[T columnar.Number](v view.ConstView[T]) T {
	var total T
	for _, x := range v.All() {
		if x != x { // NaN
			continue
		}
		total += x
	}
	return total
}

// Summary describes the non-NaN values of a numeric column
type Summary struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P90    float64 `json:"p90"`
}

// Describe summarizes v. NaNs are skipped; a view with no other values is an
// invalid argument.
func Describe[T columnar.Number](v view.ConstView[T]) (Summary, error) {
	data := floats(v)
	if len(data) == 0 {
		return Summary{}, errors.New(errors.ErrorTypeInvalidArgument, "no values to describe")
	}

	var (
		s   = Summary{Count: len(data)}
		err error
	)
	if s.Sum, err = stats.Sum(data); err != nil {
		return Summary{}, wrapStats(err, "sum")
	}
	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, wrapStats(err, "mean")
	}
	if s.Median, err = stats.Median(data); err != nil {
		return Summary{}, wrapStats(err, "median")
	}
	if s.StdDev, err = stats.StandardDeviationPopulation(data); err != nil {
		return Summary{}, wrapStats(err, "std_dev")
	}
	if s.Min, err = stats.Min(data); err != nil {
		return Summary{}, wrapStats(err, "min")
	}
	if s.Max, err = stats.Max(data); err != nil {
		return Summary{}, wrapStats(err, "max")
	}
	if s.P90, err = stats.Percentile(data, 90); err != nil {
		return Summary{}, wrapStats(err, "p90")
	}
	return s, nil
}

// Mean returns the arithmetic mean of the non-NaN values of v
func Mean[T columnar.Number](v view.ConstView[T]) (float64, error) {
	data := floats(v)
	if len(data) == 0 {
		return 0, errors.New(errors.ErrorTypeInvalidArgument, "no values to average")
	}
	m, err := stats.Mean(data)
	if err != nil {
		return 0, wrapStats(err, "mean")
	}
	return m, nil
}

// NLargestColumn is NLargest over a column of f
func NLargestColumn[T cmp.Ordered](f *columnar.Frame, name string, n int) ([]T, error) {
	data, err := columnar.GetColumn[T](f, name)
	if err != nil {
		return nil, err
	}
	return NLargest(view.OfConst(data), n), nil
}

// NSmallestColumn is NSmallest over a column of f
func NSmallestColumn[T cmp.Ordered](f *columnar.Frame, name string, n int) ([]T, error) {
	data, err := columnar.GetColumn[T](f, name)
	if err != nil {
		return nil, err
	}
	return NSmallest(view.OfConst(data), n), nil
}

// DescribeColumn is Describe over a column of f
func DescribeColumn[T columnar.Number](f *columnar.Frame, name string) (Summary, error) {
	data, err := columnar.GetColumn[T](f, name)
	if err != nil {
		return Summary{}, err
	}
	s, err := Describe(view.OfConst(data))
	if err != nil {
		return Summary{}, errors.Wrap(err, errors.ErrorTypeInvalidArgument,
			"cannot describe column "+name).WithDetail("column", name)
	}
	return s, nil
}

func floats[T columnar.Number](v view.ConstView[T]) stats.Float64Data {
	data := make(stats.Float64Data, 0, v.Len())
	for _, x := range v.All() {
		if x != x { // NaN
			continue
		}
		data = append(data, float64(x))
	}
	return data
}

func wrapStats(err error, what string) error {
	return errors.Wrap(err, errors.ErrorTypeInvalidArgument, "cannot compute "+what).
		WithDetail("statistic", what)
}
