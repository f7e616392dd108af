package sample

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colframe/colframe/pkg/columnar"
	"github.com/colframe/colframe/pkg/config"
	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/testutil"
)

func TestBuildIsReproducible(t *testing.T) {
	cfg := config.NewConfig()

	first, err := NewBuilder(cfg, testutil.TestLogger(t), nil).Build(testutil.TestContext(t))
	require.NoError(t, err)
	second, err := NewBuilder(cfg, nil, nil).Build(context.Background())
	require.NoError(t, err)

	a, err := first.MarshalJSON()
	require.NoError(t, err)
	b, err := second.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	assert.Equal(t, cfg.RandGen.Rows, first.IndexLen())
	assert.Equal(t, cfg.Name, first.Name())
	assert.Equal(t,
		[]string{ColumnPrice, ColumnQuotes, ColumnSignal, ColumnTicker, ColumnTrades, ColumnVolume},
		first.ColumnNames())
}

func TestBuildAppliesNaNPolicy(t *testing.T) {
	cfg := config.NewConfig()
	cfg.RandGen.Rows = 10

	padded, err := NewBuilder(cfg, nil, nil).Build(context.Background())
	require.NoError(t, err)
	quotes, err := columnar.GetColumn[float64](padded, ColumnQuotes)
	require.NoError(t, err)
	require.Len(t, quotes, 10)
	assert.True(t, math.IsNaN(quotes[9]))

	cfg.Frame.NaNPolicy = config.NaNPolicyDontPad
	natural, err := NewBuilder(cfg, nil, nil).Build(context.Background())
	require.NoError(t, err)
	n, err := natural.ColumnLen(ColumnQuotes)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestBuildHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(config.NewConfig(), nil, nil).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildRejectsNegativeRows(t *testing.T) {
	cfg := config.NewConfig()
	cfg.RandGen.Rows = -1

	_, err := NewBuilder(cfg, nil, nil).Build(context.Background())
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))
}

func TestPeriodMeans(t *testing.T) {
	f := columnar.NewFrame()
	require.NoError(t, columnar.LoadData(f, make([]int, 7),
		columnar.Col("v", []float64{1, 3, math.NaN(), math.NaN(), 10, 20, 30})))

	means, err := PeriodMeans[float64](f, "v", 2)
	require.NoError(t, err)
	require.Len(t, means, 4)
	assert.Equal(t, 2.0, means[0])
	assert.True(t, math.IsNaN(means[1]))
	assert.Equal(t, 15.0, means[2])
	assert.Equal(t, 30.0, means[3])

	_, err = PeriodMeans[float64](f, "v", 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidArgument))

	_, err = PeriodMeans[int](f, "v", 2)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}
