// Package outlier flags unusually high and low features of a layer field.
package outlier

import (
	"cmp"
	"math"
	"slices"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/stats"
)

const (
	maxHigh = 10
	maxLow  = 5

	iqrMultiplier   = 1.5
	sigmaMultiplier = 2.5
)

// Record is one flagged feature.
type Record struct {
	Index   int
	Feature *domain.Feature
	Value   float64
	// SigmaDistance is (value−mean)/σ; nil when σ is zero.
	SigmaDistance *float64
	ExpectedValue *float64
}

// Bounds are the thresholds a value is tested against.
type Bounds struct {
	IQRLower, IQRUpper     float64
	SigmaLower, SigmaUpper float64
}

// Result groups flagged features. Contextual is reserved and always empty.
type Result struct {
	High       []Record
	Low        []Record
	Contextual []Record
	Summary    stats.Summary
	Bounds     Bounds
}

// Detect classifies each valid value of field. A value is HIGH when it exceeds
// the IQR upper fence or the 2.5σ upper bound, and LOW symmetrically; either
// criterion alone suffices. Lists are ranked by |sigma distance| and capped
// at 10 high and 5 low.
func Detect(features []domain.Feature, field string) Result {
	obs := stats.Observations(features, field)
	res := Result{
		High:       []Record{},
		Low:        []Record{},
		Contextual: []Record{},
	}
	if len(obs) == 0 {
		return res
	}

	series := make([]float64, len(obs))
	for i, o := range obs {
		series[i] = o.Value
	}
	s := stats.ComputeStatistics(series)
	iqr := s.IQR()
	b := Bounds{
		IQRLower:   s.Q1 - iqrMultiplier*iqr,
		IQRUpper:   s.Q3 + iqrMultiplier*iqr,
		SigmaLower: s.Mean - sigmaMultiplier*s.StandardDeviation,
		SigmaUpper: s.Mean + sigmaMultiplier*s.StandardDeviation,
	}
	res.Summary = s
	res.Bounds = b

	hasSigma := s.StandardDeviation > 0
	mean := s.Mean
	for _, o := range obs {
		high := o.Value > b.IQRUpper || (hasSigma && o.Value > b.SigmaUpper)
		low := o.Value < b.IQRLower || (hasSigma && o.Value < b.SigmaLower)
		if !high && !low {
			continue
		}
		r := Record{
			Index:         o.Index,
			Feature:       &features[o.Index],
			Value:         o.Value,
			ExpectedValue: &mean,
		}
		if hasSigma {
			d := (o.Value - mean) / s.StandardDeviation
			r.SigmaDistance = &d
		}
		if high {
			res.High = append(res.High, r)
		} else {
			res.Low = append(res.Low, r)
		}
	}

	rank(res.High)
	rank(res.Low)
	res.High = res.High[:min(len(res.High), maxHigh)]
	res.Low = res.Low[:min(len(res.Low), maxLow)]
	return res
}

// rank orders by descending |sigma distance|; records without one sort last,
// and ties keep feature order.
func rank(rs []Record) {
	slices.SortStableFunc(rs, func(a, b Record) int {
		return cmp.Compare(absSigma(b), absSigma(a))
	})
}

func absSigma(r Record) float64 {
	if r.SigmaDistance == nil {
		return -1
	}
	return math.Abs(*r.SigmaDistance)
}

// Empty reports whether nothing was flagged.
func (r Result) Empty() bool {
	return len(r.High) == 0 && len(r.Low) == 0 && len(r.Contextual) == 0
}
