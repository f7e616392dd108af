// Package sample builds generated frames for the CLI and for benchmarks.
package sample

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/colframe/colframe/pkg/columnar"
	"github.com/colframe/colframe/pkg/config"
	"github.com/colframe/colframe/pkg/errors"
	"github.com/colframe/colframe/pkg/metrics"
	"github.com/colframe/colframe/pkg/randgen"
	"github.com/colframe/colframe/pkg/view"
	"github.com/colframe/colframe/pkg/visitors"
)

// Column names of a generated frame.
const (
	ColumnPrice  = "price"
	ColumnVolume = "volume"
	ColumnTicker = "ticker"
	ColumnSignal = "signal"
	ColumnTrades = "trades"
	ColumnQuotes = "quotes"
)

var tickers = []string{"AAPL", "AMZN", "GOOG", "IBM", "MSFT", "NVDA", "ORCL"}

// Builder creates frames of random market-like data
type Builder struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewBuilder creates a Builder. A nil logger disables logging and a nil
// collector disables metrics.
func NewBuilder(cfg *config.Config, logger *zap.Logger, collector *metrics.Collector) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{cfg: cfg, logger: logger, metrics: collector}
}

// Build generates a frame with cfg.RandGen.Rows rows indexed 1..rows.
//
// The quotes column has half as many values as the index so the configured
// NaN policy is visible.
func (b *Builder) Build(ctx context.Context) (*columnar.Frame, error) {
	rows := b.cfg.RandGen.Rows
	seed := b.cfg.RandGen.Seed
	if rows < 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "cannot build a frame of %d rows", rows)
	}

	// derive one seed per column so columns differ but stay reproducible
	seedFor := func(i uint64) uint64 {
		if seed == 0 {
			return 0
		}
		return seed + i
	}

	index := make([]uint64, rows)
	for i := range index {
		index[i] = uint64(i + 1)
	}

	priceParams := randgen.DefaultParams[float64]()
	priceParams.MinValue, priceParams.MaxValue = 10, 500
	priceParams.Seed = seedFor(1)
	prices, err := randgen.UniformReal(rows, priceParams)
	if err != nil {
		return nil, err
	}

	volumeParams := randgen.DefaultParams[int32]()
	volumeParams.MinValue, volumeParams.MaxValue = -1000, 100000
	volumeParams.Seed = seedFor(2)
	volumes, err := randgen.UniformInt(rows, volumeParams)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tickerParams := randgen.DefaultParams[int]()
	tickerParams.MaxValue = len(tickers) - 1
	tickerParams.Seed = seedFor(3)
	picks, err := randgen.UniformInt(rows, tickerParams)
	if err != nil {
		return nil, err
	}
	names := make([]string, rows)
	for i, p := range picks {
		names[i] = tickers[p]
	}

	signals, err := randgen.Bernoulli(rows, 0.5, seedFor(4))
	if err != nil {
		return nil, err
	}

	tradeParams := randgen.DefaultParams[int64]()
	tradeParams.TDist = 100
	tradeParams.Prob = 0.3
	tradeParams.Seed = seedFor(5)
	trades, err := randgen.Binomial(rows, tradeParams)
	if err != nil {
		return nil, err
	}

	quoteParams := randgen.DefaultParams[float64]()
	quoteParams.Mean, quoteParams.StdDev = 100, 15
	quoteParams.Seed = seedFor(6)
	quotes, err := randgen.Normal(rows/2, quoteParams)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame := columnar.NewFrame(
		columnar.WithName(b.cfg.Name),
		columnar.WithConfig(b.cfg.Frame),
		columnar.WithLogger(b.logger),
		columnar.WithMetrics(b.metrics))

	err = columnar.LoadData(frame, index,
		columnar.Col(ColumnPrice, prices),
		columnar.Col(ColumnVolume, volumes),
		columnar.Col(ColumnTicker, names),
		columnar.Col(ColumnSignal, signals),
		columnar.Col(ColumnTrades, trades),
		columnar.Col(ColumnQuotes, quotes))
	if err != nil {
		return nil, err
	}

	b.logger.Info("sample frame built",
		zap.String("frame", frame.Name()),
		zap.Int("rows", rows),
		zap.Uint64("seed", seed),
		zap.Int("columns", frame.ColumnCount()))
	return frame, nil
}

// PeriodMeans averages column over consecutive periods of stride rows, one
// value per period including a trailing partial one. Periods holding only
// NaNs average to NaN.
func PeriodMeans[T columnar.Number](f *columnar.Frame, column string, stride int) ([]float64, error) {
	if stride <= 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "stride must be positive, got %d", stride)
	}
	data, err := columnar.GetColumn[T](f, column)
	if err != nil {
		return nil, err
	}

	means := make([]float64, 0, (len(data)+stride-1)/stride)
	for begin := 0; begin < len(data); begin += stride {
		end := min(begin+stride, len(data))
		m, err := visitors.Mean(view.RangeConst(data, begin, end))
		if err != nil {
			m = math.NaN()
		}
		means = append(means, m)
	}
	return means, nil
}
