package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

// Foundation renders the statistical summary segment for one layer field.
// Absence of data is stated explicitly rather than omitted.
func Foundation(features []domain.Feature, field string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[STATISTICAL FOUNDATION: %s]\n", field)

	series := ExtractNumeric(features, field)
	if len(series) == 0 {
		fmt.Fprintf(&b, "No valid numeric data for %s (0 of %d features).\n", field, len(features))
		writeCoverage(&b, SummarizeGeographicCoverage(features))
		return b.String()
	}

	s := ComputeStatistics(series)
	fmt.Fprintf(&b, "Valid values: %d of %d features\n", s.Count, len(features))
	fmt.Fprintf(&b, "Range: %s to %s | Mean: %s | Median: %s | Std dev: %s\n",
		FormatNumber(s.Min), FormatNumber(s.Max), FormatNumber(s.Mean),
		FormatNumber(s.Median), FormatNumber(s.StandardDeviation))
	fmt.Fprintf(&b, "Quartiles: Q1=%s, Q2=%s, Q3=%s (IQR %s)\n",
		FormatNumber(s.Q1), FormatNumber(s.Q2), FormatNumber(s.Q3), FormatNumber(s.IQR()))

	d := ClassifyDistribution(series)
	b.WriteString("Distribution: " + string(d.Shape))
	var shape []string
	if d.Skewness != nil {
		shape = append(shape, "skewness "+strconv.FormatFloat(*d.Skewness, 'f', 2, 64))
	}
	if d.Kurtosis != nil {
		shape = append(shape, "kurtosis "+strconv.FormatFloat(*d.Kurtosis, 'f', 2, 64))
	}
	if len(shape) > 0 {
		b.WriteString(" (" + strings.Join(shape, ", ") + ")")
	}
	b.WriteString("\n")

	writeCoverage(&b, SummarizeGeographicCoverage(features))
	return b.String()
}

func writeCoverage(b *strings.Builder, c Coverage) {
	fmt.Fprintf(b, "Coverage: %s, %d regions", c.CoverageType, c.TotalRegions)
	if c.UniqueStates > 0 {
		fmt.Fprintf(b, " across %d states", c.UniqueStates)
	}
	if c.HasDescriptions {
		b.WriteString(", named areas available")
	}
	b.WriteString("\n")
}

// FormatNumber renders v with two decimals, dropping them for whole numbers.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) && v < 1e15 && v > -1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
