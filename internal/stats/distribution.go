package stats

import "math"

// Shape is the coarse classification of a distribution.
type Shape string

const (
	ShapeNormal  Shape = "normal"
	ShapeSkewed  Shape = "skewed"
	ShapeBimodal Shape = "bimodal"
	ShapeUniform Shape = "uniform"
)

// Reporting thresholds: smaller magnitudes are treated as noise and omitted.
const (
	skewReportThreshold     = 0.1
	kurtosisReportThreshold = 0.5
)

// Distribution is informational only; nothing downstream branches on it.
type Distribution struct {
	Shape    Shape
	Skewness *float64
	Kurtosis *float64
}

// ClassifyDistribution labels series using Pearson's second skewness
// coefficient 3(mean−median)/σ and excess kurtosis m4/σ⁴ − 3.
//
// Fewer than three values are "uniform". Otherwise |skew| < 0.5 is "normal",
// anything else "skewed", and |kurtosis| > 2 then overrides either to "bimodal".
func ClassifyDistribution(series []float64) Distribution {
	if len(series) < 3 {
		return Distribution{Shape: ShapeUniform}
	}

	s := ComputeStatistics(series)
	variance := s.StandardDeviation * s.StandardDeviation

	var skew, kurt float64
	if s.StandardDeviation > 0 {
		skew = 3 * (s.Mean - s.Median) / s.StandardDeviation
		var m4 float64
		for _, v := range series {
			d := v - s.Mean
			m4 += d * d * d * d
		}
		m4 /= float64(len(series))
		kurt = m4/(variance*variance) - 3
	}

	d := Distribution{Shape: ShapeSkewed}
	if math.Abs(skew) < 0.5 {
		d.Shape = ShapeNormal
	}
	if math.Abs(kurt) > 2 {
		d.Shape = ShapeBimodal
	}
	if math.Abs(skew) > skewReportThreshold {
		d.Skewness = &skew
	}
	if math.Abs(kurt) > kurtosisReportThreshold {
		d.Kurtosis = &kurt
	}
	return d
}
