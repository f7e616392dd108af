// Package randgen generates columns of random values for tests, benchmarks
// and sample frames.
//
// Every generator takes the number of values and a Params. A zero Seed draws
// a fresh seed on each call; any other Seed makes the output reproducible.
package randgen

import (
	"math"
	"math/rand/v2"

	"golang.org/x/exp/constraints"

	"github.com/colframe/colframe/pkg/errors"
)

// Params configures a generator. Fields a distribution does not use are
// ignored.
type Params[T constraints.Integer | constraints.Float] struct {
	// MinValue and MaxValue bound uniform draws, both inclusive for integers
	MinValue T
	MaxValue T
	// Seed of the PCG source; 0 means non-deterministic
	Seed uint64
	// Prob is the success probability of Bernoulli trials
	Prob float64
	// TDist is the trial count of Binomial and the success count of
	// NegativeBinomial
	TDist T
	Mean   float64
	StdDev float64
	// Lambda is the rate of Exponential and the mean of Poisson
	Lambda float64
}

// DefaultParams returns the parameters used when a caller sets nothing else:
// the unit interval, a fair coin, one trial and unit mean and rate.
func DefaultParams[T constraints.Integer | constraints.Float]() Params[T] {
	return Params[T]{
		MinValue: 0,
		MaxValue: 1,
		Prob:     0.5,
		TDist:    1,
		Mean:     1,
		StdDev:   1,
		Lambda:   1,
	}
}

func source(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func checkCount(n int) error {
	if n < 0 {
		return errors.Newf(errors.ErrorTypeInvalidArgument, "cannot generate %d values", n)
	}
	return nil
}

func checkProb(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return errors.Newf(errors.ErrorTypeInvalidArgument, "probability %v is outside [0, 1]", p)
	}
	return nil
}

// UniformInt draws n integers uniformly from [MinValue, MaxValue]. Bounds must
// fit in an int64.
func UniformInt[T constraints.Integer](n int, p Params[T]) ([]T, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if p.MaxValue < p.MinValue {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument,
			"min value %v is greater than max value %v", p.MinValue, p.MaxValue)
	}

	r := source(p.Seed)
	lo, hi := int64(p.MinValue), int64(p.MaxValue)
	span := uint64(hi-lo) + 1
	out := make([]T, n)
	for i := range out {
		if span == 0 {
			// the whole int64 range
			out[i] = T(int64(r.Uint64()))
			continue
		}
		out[i] = T(lo + int64(r.Uint64N(span)))
	}
	return out, nil
}

// UniformReal draws n values uniformly from [MinValue, MaxValue)
func UniformReal[T constraints.Float](n int, p Params[T]) ([]T, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if p.MaxValue < p.MinValue {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument,
			"min value %v is greater than max value %v", p.MinValue, p.MaxValue)
	}

	r := source(p.Seed)
	lo, width := float64(p.MinValue), float64(p.MaxValue)-float64(p.MinValue)
	out := make([]T, n)
	for i := range out {
		out[i] = T(lo + r.Float64()*width)
	}
	return out, nil
}

// Normal draws n values from a normal distribution with Mean and StdDev
func Normal[T constraints.Float](n int, p Params[T]) ([]T, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if p.StdDev < 0 || math.IsNaN(p.StdDev) {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "standard deviation %v is negative", p.StdDev)
	}

	r := source(p.Seed)
	out := make([]T, n)
	for i := range out {
		out[i] = T(r.NormFloat64()*p.StdDev + p.Mean)
	}
	return out, nil
}

// Exponential draws n values from an exponential distribution with rate Lambda
func Exponential[T constraints.Float](n int, p Params[T]) ([]T, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if !(p.Lambda > 0) {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "rate %v must be positive", p.Lambda)
	}

	r := source(p.Seed)
	out := make([]T, n)
	for i := range out {
		out[i] = T(r.ExpFloat64() / p.Lambda)
	}
	return out, nil
}

// Bernoulli draws n booleans that are true with probability prob
func Bernoulli(n int, prob float64, seed uint64) ([]bool, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if err := checkProb(prob); err != nil {
		return nil, err
	}

	r := source(seed)
	out := make([]bool, n)
	for i := range out {
		out[i] = r.Float64() < prob
	}
	return out, nil
}

// Binomial draws n success counts of TDist trials with success probability Prob
func Binomial[T constraints.Integer](n int, p Params[T]) ([]T, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if err := checkProb(p.Prob); err != nil {
		return nil, err
	}
	if p.TDist < 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "trial count %v is negative", p.TDist)
	}

	r := source(p.Seed)
	trials := int64(p.TDist)
	out := make([]T, n)
	for i := range out {
		var successes int64
		for range trials {
			if r.Float64() < p.Prob {
				successes++
			}
		}
		out[i] = T(successes)
	}
	return out, nil
}

// NegativeBinomial draws n counts of failures seen before TDist successes,
// each trial succeeding with probability Prob
func NegativeBinomial[T constraints.Integer](n int, p Params[T]) ([]T, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if err := checkProb(p.Prob); err != nil {
		return nil, err
	}
	if p.Prob == 0 {
		return nil, errors.New(errors.ErrorTypeInvalidArgument, "success probability must be positive")
	}
	if p.TDist <= 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "success count %v must be positive", p.TDist)
	}

	r := source(p.Seed)
	want := int64(p.TDist)
	out := make([]T, n)
	for i := range out {
		var successes, failures int64
		for successes < want {
			if r.Float64() < p.Prob {
				successes++
			} else {
				failures++
			}
		}
		out[i] = T(failures)
	}
	return out, nil
}

// Poisson draws n event counts with mean Lambda. Each draw costs O(Lambda).
func Poisson[T constraints.Integer](n int, p Params[T]) ([]T, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if !(p.Lambda > 0) || math.IsInf(p.Lambda, 1) {
		return nil, errors.Newf(errors.ErrorTypeInvalidArgument, "mean %v must be positive and finite", p.Lambda)
	}

	r := source(p.Seed)
	out := make([]T, n)
	for i := range out {
		// count unit-rate arrivals before time Lambda
		var k int64
		for t := r.ExpFloat64(); t < p.Lambda; t += r.ExpFloat64() {
			k++
		}
		out[i] = T(k)
	}
	return out, nil
}
