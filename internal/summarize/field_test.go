package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

func TestResolveField(t *testing.T) {
	tests := []struct {
		name     string
		features []domain.Feature
		cfg      domain.LayerConfig
		at       domain.AnalysisType
		want     string
	}{
		{
			name:     "renderer field wins even without data",
			features: []domain.Feature{domain.NewFeature(map[string]any{"value": 1.0})},
			cfg:      domain.LayerConfig{RendererField: "median_income"},
			at:       domain.AnalysisStrategic,
			want:     "median_income",
		},
		{
			name: "known analysis field",
			features: []domain.Feature{domain.NewFeature(map[string]any{
				"value": 1.0, "performance_score": 2.0,
			})},
			at:   domain.AnalysisPerformance,
			want: "performance_score",
		},
		{
			name:     "known field without numeric data falls through",
			features: []domain.Feature{domain.NewFeature(map[string]any{"performance_score": "high", "score": 3.0})},
			at:       domain.AnalysisPerformance,
			want:     "score",
		},
		{
			name:     "generic list order",
			features: []domain.Feature{domain.NewFeature(map[string]any{"count": 1.0, "total": 2.0})},
			at:       domain.AnalysisStrategic,
			want:     "total",
		},
		{
			name: "first numeric property, identifiers skipped",
			features: []domain.Feature{
				domain.NewFeature(map[string]any{"name": "A"}),
				domain.NewFeature(map[string]any{"OBJECTID": 7.0, "pop_density": 2.0, "households": 9.0}),
			},
			at:   domain.AnalysisStrategic,
			want: "households",
		},
		{
			name:     "sentinel",
			features: []domain.Feature{domain.NewFeature(map[string]any{"name": "A"})},
			at:       domain.AnalysisStrategic,
			want:     domain.UnknownField,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveField(tt.features, tt.cfg, tt.at))
		})
	}
}
