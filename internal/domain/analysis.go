package domain

import "strings"

// AnalysisType identifies which digest builder summarizes a layer.
type AnalysisType string

const (
	AnalysisStrategic    AnalysisType = "strategic-analysis"
	AnalysisPerformance  AnalysisType = "performance-ranking"
	AnalysisCompetitive  AnalysisType = "competitive-analysis"
	AnalysisComparative  AnalysisType = "comparative-analysis"
	AnalysisOutlier      AnalysisType = "outlier-detection"
	AnalysisAnomaly      AnalysisType = "anomaly-detection"
	AnalysisSpatial      AnalysisType = "spatial-clusters"
	AnalysisHotspot      AnalysisType = "hotspot-analysis"
	AnalysisDemographic  AnalysisType = "demographic-insights"
	AnalysisDistribution AnalysisType = "distribution-analysis"
)

// analysisFields maps each known analysis type to the score field its layers carry.
var analysisFields = map[AnalysisType]string{
	AnalysisStrategic:    "strategic_value_score",
	AnalysisPerformance:  "performance_score",
	AnalysisCompetitive:  "competitive_advantage_score",
	AnalysisComparative:  "comparison_score",
	AnalysisOutlier:      "outlier_score",
	AnalysisAnomaly:      "anomaly_score",
	AnalysisSpatial:      "cluster_performance_score",
	AnalysisHotspot:      "hotspot_score",
	AnalysisDemographic:  "demographic_opportunity_score",
	AnalysisDistribution: "distribution_score",
}

// KnownField returns the conventional score field for t.
func KnownField(t AnalysisType) (string, bool) {
	f, ok := analysisFields[t]
	return f, ok
}

// Title renders t for digest headers: "outlier-detection" -> "OUTLIER DETECTION".
func (t AnalysisType) Title() string {
	if t == "" {
		return "GENERAL"
	}
	return strings.ToUpper(strings.ReplaceAll(string(t), "-", " "))
}
