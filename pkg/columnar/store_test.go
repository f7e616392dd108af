package columnar

import (
	"math"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/colframe/colframe/pkg/config"
	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/metrics"
	"github.com/colframe/colframe/pkg/testutil"
)

func TestLoadDataPadsByDefault(t *testing.T) {
	f := NewFrame()

	err := LoadData(f, []uint64{1, 2, 3, 4},
		Col("dbl", []float64{1.5, 2.5}),
		Col("int", []int32{7}),
		Col("str", []string{"a", "b", "c", "d"}))
	require.NoError(t, err)

	assert.Equal(t, 4, f.IndexLen())
	assert.Equal(t, []string{"dbl", "int", "str"}, f.ColumnNames())

	dbl, err := GetColumn[float64](f, "dbl")
	require.NoError(t, err)
	require.Len(t, dbl, 4)
	assert.Equal(t, 2.5, dbl[1])
	assert.True(t, math.IsNaN(dbl[2]))
	assert.True(t, math.IsNaN(dbl[3]))

	ints, err := GetColumn[int32](f, "int")
	require.NoError(t, err)
	assert.Equal(t, []int32{7, 0, 0, 0}, ints)
}

func TestLoadDataWithoutPadding(t *testing.T) {
	cfg := config.NewConfig().Frame
	cfg.NaNPolicy = config.NaNPolicyDontPad
	f := NewFrame(WithConfig(cfg))

	require.NoError(t, LoadData(f, []int{1, 2, 3}, Col("short", []float64{1})))

	n, err := f.ColumnLen("short")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoadDataIsAllOrNothing(t *testing.T) {
	f := NewFrame()
	require.NoError(t, LoadData(f, []int{1, 2}, Col("a", []int{1, 2})))

	err := LoadData(f, []int{1, 2, 3},
		Col("b", []int{1}),
		Col("c", []int{1, 2, 3, 4}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
	assert.Equal(t, 2, f.IndexLen())
	assert.False(t, f.HasColumn("b"))

	err = LoadData(f, []int{1}, Col("x", []int{1}), Col("x", []int{2}))
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))

	err = LoadData(f, []int{1}, Col("", []int{1}))
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}

func TestLoadDataRejectsZeroNamedColumn(t *testing.T) {
	f := NewFrame()

	var err error
	require.NotPanics(t, func() { err = LoadData(f, []int{1}, NamedColumn{}) })
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))

	require.NotPanics(t, func() { err = LoadData(f, []int{1}, Col("a", []int{1}), NamedColumn{name: "b"}) })
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
	assert.Contains(t, err.Error(), `column "b" has no data`)
	assert.Zero(t, f.IndexLen())
	assert.False(t, f.HasColumn("a"))
}

func TestLoadDataDoesNotWriteIntoCallerCapacity(t *testing.T) {
	backing := make([]float64, 1, 4)
	backing[0] = 3
	spare := backing[:4]

	f := NewFrame()
	require.NoError(t, LoadData(f, []int{1, 2, 3}, Col("x", backing)))

	assert.Equal(t, 0.0, spare[1])
}

func TestLoadColumn(t *testing.T) {
	f := NewFrame()
	require.NoError(t, LoadIndex(f, []string{"a", "b", "c"}))

	require.NoError(t, LoadColumn(f, "kept", []int{1}, DontPadWithNaNs))
	require.NoError(t, LoadColumn(f, "padded", []float32{1}, PadWithNaNs))

	n, _ := f.ColumnLen("kept")
	assert.Equal(t, 1, n)

	padded, err := GetColumn[float32](f, "padded")
	require.NoError(t, err)
	require.Len(t, padded, 3)
	assert.True(t, math.IsNaN(float64(padded[2])))

	err = LoadColumn(f, "long", []int{1, 2, 3, 4}, DontPadWithNaNs)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))

	require.NoError(t, LoadColumn(f, "kept", []string{"x", "y"}, DontPadWithNaNs))
	typ, err := f.ColumnType("kept")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[string](), typ)
}

func TestNaNValue(t *testing.T) {
	type price float64

	assert.True(t, math.IsNaN(nanValue[float64]()))
	assert.True(t, math.IsNaN(float64(nanValue[float32]())))
	assert.True(t, math.IsNaN(float64(nanValue[price]())))
	assert.Equal(t, 0, nanValue[int]())
	assert.Equal(t, "", nanValue[string]())
}

func TestTypedAccess(t *testing.T) {
	f := NewFrame()
	require.NoError(t, LoadData(f, []uint64{1, 2}, Col("dbl", []float64{1, 2})))

	_, err := GetColumn[int](f, "dbl")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
	assert.Contains(t, err.Error(), "stores float64, requested int")

	_, err = GetColumn[float64](f, "missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))

	idx, err := GetIndex[uint64](f)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, idx)

	_, err = GetIndex[int64](f)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	_, err = GetIndex[int](NewFrame())
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))
}

func TestGetColumnAliasesStorage(t *testing.T) {
	f := NewFrame()
	require.NoError(t, LoadData(f, []int{1, 2}, Col("x", []int{10, 20})))

	x, err := GetColumn[int](f, "x")
	require.NoError(t, err)
	x[1] = 99

	again, _ := GetColumn[int](f, "x")
	assert.Equal(t, 99, again[1])
}

func TestRenameAndRemove(t *testing.T) {
	f := NewFrame()
	require.NoError(t, LoadData(f, []int{1}, Col("a", []int{1}), Col("b", []int{2})))

	assert.True(t, errors.IsType(f.RenameColumn("a", "b"), errors.ErrorTypeInvalidArgument))
	assert.True(t, errors.IsType(f.RenameColumn("zz", "c"), errors.ErrorTypeColumnNotFound))
	assert.True(t, errors.IsType(f.RenameColumn("a", ""), errors.ErrorTypeInvalidArgument))

	require.NoError(t, f.RenameColumn("a", "c"))
	assert.Equal(t, []string{"b", "c"}, f.ColumnNames())

	require.NoError(t, f.RemoveColumn("b"))
	assert.True(t, errors.IsType(f.RemoveColumn("b"), errors.ErrorTypeColumnNotFound))
	assert.Equal(t, 1, f.ColumnCount())
}

func TestMemoryUsage(t *testing.T) {
	f := NewFrame()
	require.NoError(t, LoadData(f, []int64{1, 2}, Col("ab", []float64{1, 2})))

	// 16 bytes of index, 16 bytes of values, 2 bytes of name
	assert.Equal(t, int64(34), f.MemoryUsage())
}

func TestFrameRecordsMetricsAndLogs(t *testing.T) {
	log, logs := testutil.ObservedLogger(zap.DebugLevel)
	collector := metrics.NewCollector("test", prometheus.NewRegistry())

	f := NewFrame(WithName("prices"), WithLogger(log), WithMetrics(collector))
	assert.Equal(t, "prices", f.Name())

	require.NoError(t, LoadData(f, []int{1, 2, 3}, Col("x", []int{1, 2, 3})))
	_, err := GetColumn[int](f, "x")
	require.NoError(t, err)
	require.Error(t, LoadColumn(f, "", []int{1}, DontPadWithNaNs))

	assert.Equal(t, 1.0, promtest.ToFloat64(collector.Operations().WithLabelValues("load_data", metrics.StatusSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(collector.Failures().WithLabelValues("load_column", "invalid_argument")))
	assert.Equal(t, 3.0, promtest.ToFloat64(collector.IndexLength().WithLabelValues("prices")))

	completed := logs.FilterMessage("frame operation completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, "load_data", completed[0].ContextMap()["operation"])
	assert.Equal(t, 1, logs.FilterMessage("frame operation failed").Len())
}
