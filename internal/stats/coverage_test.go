package stats

import (
	"testing"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeGeographicCoverage(t *testing.T) {
	fs := []domain.Feature{
		domain.NewFeature(map[string]any{"state": "TX", "value": 1.0}),
		domain.NewFeature(map[string]any{"STATE": "TX"}),
		domain.NewFeature(map[string]any{"DESCRIPTION": "48864 (Okemos, MI)"}),
		domain.NewFeature(map[string]any{"DESCRIPTION": "NW District, no state"}),
		domain.NewFeature(map[string]any{"value": 3.0}),
	}

	c := SummarizeGeographicCoverage(fs)

	assert.Equal(t, 5, c.TotalRegions)
	assert.Equal(t, 2, c.UniqueStates)
	assert.Equal(t, CoverageLimited, c.CoverageType)
	assert.True(t, c.HasDescriptions)
}

func TestSummarizeGeographicCoverage_Empty(t *testing.T) {
	c := SummarizeGeographicCoverage(nil)

	assert.Equal(t, Coverage{CoverageType: CoverageLimited}, c)
}

func TestCoverageType(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, CoverageLimited},
		{99, CoverageLimited},
		{100, CoverageMetropolitan},
		{999, CoverageMetropolitan},
		{1000, CoverageMultiState},
		{4999, CoverageMultiState},
		{5000, CoverageNational},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CoverageType(tt.n), "n=%d", tt.n)
	}
}

func TestStateFromText(t *testing.T) {
	assert.Equal(t, "MI", StateFromText("Lansing, MI"))
	assert.Equal(t, "TX", StateFromText("NW corner (Austin, TX)"))
	assert.Empty(t, StateFromText("NW QQ zone"))
	assert.Empty(t, StateFromText(""))
}

func TestFoundation(t *testing.T) {
	fs := features("value", 1.0, 2.0, 3.0, 4.0)

	out := Foundation(fs, "value")

	assert.Contains(t, out, "[STATISTICAL FOUNDATION: value]")
	assert.Contains(t, out, "Valid values: 4 of 4 features")
	assert.Contains(t, out, "Range: 1 to 4")
	assert.Contains(t, out, "Quartiles: Q1=2, Q2=3, Q3=4")
	assert.Contains(t, out, "Distribution: skewed")
	assert.Contains(t, out, "Coverage: Limited Regional, 4 regions")
}

func TestFoundation_NoData(t *testing.T) {
	fs := features("value", "n/a", nil)

	out := Foundation(fs, "value")

	assert.Contains(t, out, "No valid numeric data for value (0 of 2 features).")
	assert.NotContains(t, out, "Distribution:")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "10000", FormatNumber(10000))
	assert.Equal(t, "2.50", FormatNumber(2.5))
	assert.Equal(t, "-0.33", FormatNumber(-1.0/3))
}
