// Package stats is the numeric foundation of the digest engine: series
// extraction, descriptive statistics, distribution shape and geographic
// coverage. Standard deviations are population (÷n) throughout.
package stats

import (
	"math"
	"slices"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

// Observation is one valid numeric value and the index of the feature it came from.
type Observation struct {
	Index int
	Value float64
}

// Observations returns every finite numeric value of field, in feature order.
// Features without the field, or with a non-numeric value, are skipped.
func Observations(features []domain.Feature, field string) []Observation {
	out := make([]Observation, 0, len(features))
	for i := range features {
		if v, ok := features[i].Get(field).Float(); ok {
			out = append(out, Observation{Index: i, Value: v})
		}
	}
	return out
}

// ExtractNumeric returns the numeric series of field across features.
func ExtractNumeric(features []domain.Feature, field string) []float64 {
	obs := Observations(features, field)
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Value
	}
	return out
}

// Summary holds descriptive statistics for a series. The zero Summary
// describes an empty series.
type Summary struct {
	Count             int
	Min               float64
	Max               float64
	Mean              float64
	Median            float64
	StandardDeviation float64
	Q1                float64
	Q2                float64
	Q3                float64
}

// IQR returns the interquartile range Q3−Q1.
func (s Summary) IQR() float64 { return s.Q3 - s.Q1 }

// ComputeStatistics summarizes series. Quartiles use the indexed estimator
// sorted[floor(n×p)], not interpolation; the median is Q2.
func ComputeStatistics(series []float64) Summary {
	n := len(series)
	if n == 0 {
		return Summary{}
	}

	sorted := slices.Clone(series)
	slices.Sort(sorted)

	mean, std := MeanStdDev(series)
	q1 := sorted[QuantileIndex(n, 0.25)]
	q2 := sorted[QuantileIndex(n, 0.5)]
	q3 := sorted[QuantileIndex(n, 0.75)]

	return Summary{
		Count:             n,
		Min:               sorted[0],
		Max:               sorted[n-1],
		Mean:              mean,
		Median:            q2,
		StandardDeviation: std,
		Q1:                q1,
		Q2:                q2,
		Q3:                q3,
	}
}

// QuantileIndex returns floor(n×p) clamped to a valid index. Tier cutoffs
// share this convention.
func QuantileIndex(n int, p float64) int {
	if n <= 0 {
		return 0
	}
	idx := int(math.Floor(float64(n) * p))
	return min(max(idx, 0), n-1)
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MeanStdDev returns the mean and population standard deviation.
func MeanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean = Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / float64(len(values)))
}
