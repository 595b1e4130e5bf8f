package digest

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/geo-digest-service/internal/cluster"
	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/outlier"
	"github.com/couchcryptid/geo-digest-service/internal/stats"
)

// distributionTopLimit caps the leader list in distribution digests; the
// bands carry most of the information there.
const distributionTopLimit = 5

func header(t domain.AnalysisType, field string) string {
	return fmt.Sprintf("=== %s: %s ===\n", t.Title(), field)
}

func scope(in Input, s stats.Summary) string {
	return fmt.Sprintf("Scope: %d of %d features with valid %s | Range %s to %s | Mean %s\n",
		s.Count, len(in.Features), in.Field,
		stats.FormatNumber(s.Min), stats.FormatNumber(s.Max), stats.FormatNumber(s.Mean))
}

func writeRanked(b *strings.Builder, in Input, obs []stats.Observation) {
	for i, o := range obs {
		fmt.Fprintf(b, "%d. %s: %s\n", i+1, domain.Label(&in.Features[o.Index], o.Index), stats.FormatNumber(o.Value))
	}
}

func rankedSections(in Input, topN, bottomN int) []string {
	top, bottom := Rank(in.Observations, topN, bottomN)
	var sections []string

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d by %s:\n", len(top), in.Field)
	writeRanked(&b, in, top)
	sections = append(sections, b.String())

	if len(bottom) > 0 {
		b.Reset()
		fmt.Fprintf(&b, "Bottom %d by %s (lowest first):\n", len(bottom), in.Field)
		writeRanked(&b, in, bottom)
		sections = append(sections, b.String())
	}
	return sections
}

// buildStandard is used for strategic analysis and for any unregistered type.
func buildStandard(in Input) Digest {
	s := stats.ComputeStatistics(in.Values())
	sections := []string{header(in.AnalysisType, in.Field) + scope(in, s)}
	sections = append(sections, rankedSections(in, in.Options.TopPerformers, in.Options.BottomPerformers)...)
	return Digest{
		Sections:  sections,
		Directive: "Base conclusions on the ranked areas and statistics above; they summarize every feature in the layer.",
	}
}

func buildTiered(in Input) Digest {
	s := stats.ComputeStatistics(in.Values())
	sections := []string{header(in.AnalysisType, in.Field) + scope(in, s)}

	var b strings.Builder
	b.WriteString("Performance tiers:\n")
	for _, t := range Tiers(in.Observations) {
		if t.Count == 0 {
			fmt.Fprintf(&b, "- %s: (none)\n", t.Name)
			continue
		}
		fmt.Fprintf(&b, "- %s: %d features, %s to %s, avg %s\n",
			t.Name, t.Count, stats.FormatNumber(t.Min), stats.FormatNumber(t.Max), stats.FormatNumber(t.Mean))
	}
	sections = append(sections, b.String())
	sections = append(sections, rankedSections(in, in.Options.TopPerformers, in.Options.BottomPerformers)...)

	return Digest{
		Sections:  sections,
		Directive: "Interpret performance through the tier bands above and cite specific areas from the top and bottom lists.",
	}
}

func buildOutliers(in Input) Digest {
	s := stats.ComputeStatistics(in.Values())
	return Digest{
		Sections: []string{
			header(in.AnalysisType, in.Field) + scope(in, s),
			outlier.Detect(in.Features, in.Field).Format(in.Field),
		},
		Directive:      "Treat the listed outliers as the complete set of anomalies and explain what separates them from the typical range.",
		CoversOutliers: true,
	}
}

// buildClusters leaves the whole body to the clusterer's formatter.
func buildClusters(in Input) Digest {
	return Digest{
		Sections:       []string{cluster.Analyze(in.Features, in.Field).Format(in.Field)},
		Directive:      "Describe geographic patterns through the regional clusters above rather than individual features.",
		CoversClusters: true,
	}
}

func buildDistribution(in Input) Digest {
	values := in.Values()
	s := stats.ComputeStatistics(values)
	d := stats.ClassifyDistribution(values)
	sections := []string{header(in.AnalysisType, in.Field) + scope(in, s)}

	var bands [4]int
	for _, v := range values {
		switch {
		case v <= s.Q1:
			bands[0]++
		case v <= s.Q2:
			bands[1]++
		case v <= s.Q3:
			bands[2]++
		default:
			bands[3]++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Distribution shape: %s\n", d.Shape)
	fmt.Fprintf(&b, "Quartile bands (Q1=%s, Q2=%s, Q3=%s):\n",
		stats.FormatNumber(s.Q1), stats.FormatNumber(s.Q2), stats.FormatNumber(s.Q3))
	fmt.Fprintf(&b, "- at or below Q1: %d\n", bands[0])
	fmt.Fprintf(&b, "- Q1 to median: %d\n", bands[1])
	fmt.Fprintf(&b, "- median to Q3: %d\n", bands[2])
	fmt.Fprintf(&b, "- above Q3: %d\n", bands[3])
	sections = append(sections, b.String())
	sections = append(sections, rankedSections(in, min(in.Options.TopPerformers, distributionTopLimit), 0)...)

	return Digest{
		Sections:  sections,
		Directive: "Characterize the population through the distribution shape and quartile bands above before citing individual areas.",
	}
}
