// Package rateestimator turns the current sample window into a fee-rate
// recommendation for a requested confirmation horizon.
package rateestimator

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/nyxchain/feeestimator/pkg/samplewindow"
)

// ErrInvalidArgument is returned by EstimateRate when horizonSeconds is
// negative.
var ErrInvalidArgument = errors.New("rateestimator: invalid argument")

// Bucket is one of the three priority classes a horizon is mapped to.
type Bucket int

const (
	Low Bucket = iota
	Medium
	High
)

func (b Bucket) String() string {
	switch b {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// DefaultRate is returned for every bucket when the sample window is
// empty. It is a sentinel meaning "unknown, minimum viable", not an
// estimate.
const DefaultRate int64 = 1

// Percentiles holds the percentile into the sorted-ascending sample
// fee rates used for each bucket.
type Percentiles struct {
	Low    int
	Medium int
	High   int
}

// DefaultPercentiles are the documented defaults: 10th percentile for
// low priority, 20th for medium, 30th for high.
var DefaultPercentiles = Percentiles{Low: 10, Medium: 20, High: 30}

// Estimator reads a samplewindow.Window on demand; it holds no state of
// its own.
type Estimator struct {
	window      *samplewindow.Window
	percentiles Percentiles
}

// New builds an Estimator over window using the given percentiles. A
// zero Percentiles value is replaced with DefaultPercentiles.
func New(window *samplewindow.Window, percentiles Percentiles) *Estimator {
	if percentiles == (Percentiles{}) {
		percentiles = DefaultPercentiles
	}

	return &Estimator{window: window, percentiles: percentiles}
}

// BucketForHorizon maps a target confirmation horizon, in seconds, to a
// priority bucket: horizon >= 300s is Low, [60s,300s) is Medium, <60s is
// High.
func BucketForHorizon(horizonSeconds int64) Bucket {
	switch {
	case horizonSeconds >= 300:
		return Low
	case horizonSeconds >= 60:
		return Medium
	default:
		return High
	}
}

// EstimateRate returns the fee rate estimate for a target confirmation
// horizon, in seconds. horizonSeconds must not be negative.
func (e *Estimator) EstimateRate(horizonSeconds int64) (int64, error) {
	if horizonSeconds < 0 {
		return 0, errors.Wrap(ErrInvalidArgument, "horizonSeconds must not be negative")
	}

	return e.EstimateRateForBucket(BucketForHorizon(horizonSeconds)), nil
}

// EstimateRateForBucket returns the percentile fee rate for a given
// bucket. If the window is empty, it returns DefaultRate.
func (e *Estimator) EstimateRateForBucket(bucket Bucket) int64 {
	samples := e.window.Samples()
	if len(samples) == 0 {
		return DefaultRate
	}

	rates := make([]int64, len(samples))
	for i, s := range samples {
		rates[i] = s.FeeRate
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i] < rates[j] })

	p := e.percentileFor(bucket)
	idx := p * len(rates) / 100
	if idx >= len(rates) {
		idx = len(rates) - 1
	}
	if idx < 0 {
		idx = 0
	}

	return rates[idx]
}

func (e *Estimator) percentileFor(bucket Bucket) int {
	switch bucket {
	case Low:
		return e.percentiles.Low
	case Medium:
		return e.percentiles.Medium
	case High:
		return e.percentiles.High
	default:
		return e.percentiles.Low
	}
}
