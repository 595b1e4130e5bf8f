// Package digest turns one layer field into a bounded text digest. Each
// analysis type resolves to a builder through an open registry; unknown types
// use the standard builder.
package digest

import (
	"strconv"
	"strings"
	"sync"

	"github.com/couchcryptid/geo-digest-service/internal/cluster"
	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/outlier"
	"github.com/couchcryptid/geo-digest-service/internal/stats"
)

// DirectivePrefix starts the single closing sentence of every digest.
const DirectivePrefix = "ANALYSIS DIRECTIVE: "

// Input is everything a builder may read. Observations is never empty.
type Input struct {
	Features     []domain.Feature
	Field        string
	AnalysisType domain.AnalysisType
	Options      domain.Options
	Observations []stats.Observation
}

// Values returns the observation values in feature order.
func (in Input) Values() []float64 {
	out := make([]float64, len(in.Observations))
	for i, o := range in.Observations {
		out[i] = o.Value
	}
	return out
}

// Digest is an ordered list of text sections closed by one directive.
type Digest struct {
	Sections  []string
	Directive string

	// Set by builders that already emit these sections, so Build does not
	// append them a second time.
	CoversOutliers bool
	CoversClusters bool
}

// String renders the sections in order followed by the directive line.
func (d Digest) String() string {
	var b strings.Builder
	for i, s := range d.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			b.WriteString("\n")
		}
	}
	if len(d.Sections) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(DirectivePrefix + d.Directive + "\n")
	return b.String()
}

// Builder produces the digest for one analysis type.
type Builder func(in Input) Digest

var (
	mu       sync.RWMutex
	registry = map[domain.AnalysisType]Builder{
		domain.AnalysisStrategic:    buildStandard,
		domain.AnalysisPerformance:  buildTiered,
		domain.AnalysisCompetitive:  buildTiered,
		domain.AnalysisComparative:  buildTiered,
		domain.AnalysisOutlier:      buildOutliers,
		domain.AnalysisAnomaly:      buildOutliers,
		domain.AnalysisSpatial:      buildClusters,
		domain.AnalysisHotspot:      buildClusters,
		domain.AnalysisDemographic:  buildDistribution,
		domain.AnalysisDistribution: buildDistribution,
	}
)

// Register adds or replaces the builder for t.
func Register(t domain.AnalysisType, b Builder) {
	mu.Lock()
	defer mu.Unlock()
	registry[t] = b
}

// Lookup returns the builder for t, or the standard builder when t is unknown.
func Lookup(t domain.AnalysisType) Builder {
	mu.RLock()
	defer mu.RUnlock()
	if b, ok := registry[t]; ok {
		return b
	}
	return buildStandard
}

// Build renders the digest of field for the given analysis type. A field
// with no valid values yields a "no valid data" digest without running
// outlier detection or clustering. When opts asks for outliers or clusters
// and the builder does not already include them, those sections are added
// before the directive.
func Build(features []domain.Feature, t domain.AnalysisType, field string, opts domain.Options) string {
	return BuildDigest(features, t, field, opts).String()
}

// BuildDigest is Build without rendering.
func BuildDigest(features []domain.Feature, t domain.AnalysisType, field string, opts domain.Options) Digest {
	opts = opts.Normalized()
	obs := stats.Observations(features, field)
	if len(obs) == 0 {
		return noData(features, t, field)
	}

	in := Input{
		Features:     features,
		Field:        field,
		AnalysisType: t,
		Options:      opts,
		Observations: obs,
	}
	d := Lookup(t)(in)
	if opts.IncludeOutliers && !d.CoversOutliers {
		d.Sections = append(d.Sections, outlier.Detect(features, field).Format(field))
		d.CoversOutliers = true
	}
	if opts.IncludeClustering && !d.CoversClusters {
		d.Sections = append(d.Sections, cluster.Analyze(features, field).Format(field))
		d.CoversClusters = true
	}
	return d
}

func noData(features []domain.Feature, t domain.AnalysisType, field string) Digest {
	return Digest{
		Sections: []string{
			header(t, field),
			"No valid data: none of the " + strconv.Itoa(len(features)) + " features has a numeric " + field + " value.\n",
		},
		Directive: "State that " + field + " has no usable values for this layer and do not infer figures for it.",
	}
}
