// Package cluster groups features into named regions and looks for spatial
// patterns across those regions.
package cluster

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/stats"
)

const (
	maxClusters        = 10
	maxDominantRegions = 5
	maxCities          = 5
	maxZIPs            = 10

	// UnknownRegion collects features with no derivable location.
	UnknownRegion = "Unknown"
)

var (
	// cityStateRe parses "<place>, <ST>" at the start of a description, e.g.
	// "Lansing, MI" or "District 5, TX". The place is everything before the first comma.
	cityStateRe = regexp.MustCompile(`^([^,]+),\s*([A-Z]{2})\b`)
	zipRe       = regexp.MustCompile(`\b(\d{5})\b`)
)

// Cluster aggregates the features sharing one derived region key.
type Cluster struct {
	ID           string
	RegionName   string
	CenterPoint  *domain.Geo
	FeatureCount int
	AverageValue float64
	MinValue     float64
	MaxValue     float64
	StdDeviation float64
	States       []string
	Cities       []string
	ZIPCodes     []string
}

// Result is the outcome of one Analyze call.
type Result struct {
	// Clusters holds at most ten clusters, highest average first.
	Clusters []Cluster
	// TotalClusters counts every cluster before truncation.
	TotalClusters   int
	Patterns        []Pattern
	DominantRegions []string
	// SpatialAutocorrelation is nil when it cannot be computed.
	SpatialAutocorrelation *float64
}

// DeriveKey names the region of a feature. Rules are applied in order and a
// later match overwrites an earlier one: explicit state, then "county, state",
// then "city, state" parsed from the description. Features matching nothing
// fall into UnknownRegion.
func DeriveKey(f *domain.Feature) string {
	key := UnknownRegion
	state := domain.StateOf(f)
	if state != "" {
		key = state
	}
	if county := f.Text(domain.CountyFields...); county != "" && state != "" {
		key = county + ", " + state
	}
	if m := cityStateRe.FindStringSubmatch(f.Text(domain.DescriptionFields...)); m != nil {
		key = m[1] + ", " + m[2]
	}
	return key
}

type accumulator struct {
	key    string
	values []float64
	center *domain.Geo
	states []string
	cities []string
	zips   []string
}

// Analyze clusters the features holding a valid value for field. All clusters
// take part in pattern detection and autocorrelation before the list is
// truncated to the ten highest averages.
func Analyze(features []domain.Feature, field string) Result {
	order := []string{}
	groups := map[string]*accumulator{}

	for _, o := range stats.Observations(features, field) {
		f := &features[o.Index]
		key := DeriveKey(f)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{key: key}
			groups[key] = acc
			order = append(order, key)
		}
		acc.add(f, o.Value)
	}

	clusters := make([]Cluster, 0, len(order))
	for _, key := range order {
		clusters = append(clusters, groups[key].cluster())
	}
	slices.SortStableFunc(clusters, func(a, b Cluster) int {
		return cmp.Compare(b.AverageValue, a.AverageValue)
	})
	for i := range clusters {
		clusters[i].ID = "cluster-" + strconv.Itoa(i+1)
	}

	res := Result{
		TotalClusters:          len(clusters),
		Patterns:               detectPatterns(clusters),
		DominantRegions:        dominantRegions(clusters),
		SpatialAutocorrelation: moransI(clusters),
	}
	res.Clusters = clusters[:min(len(clusters), maxClusters)]
	return res
}

func (a *accumulator) add(f *domain.Feature, v float64) {
	a.values = append(a.values, v)
	if a.center == nil {
		if p, ok := f.Geometry.Point(); ok {
			a.center = &p
		}
	}

	desc := f.Text(domain.DescriptionFields...)
	m := cityStateRe.FindStringSubmatch(desc)

	state := domain.StateOf(f)
	if state == "" && m != nil {
		state = m[2]
	}
	if state == "" {
		state = stats.StateFromText(desc)
	}
	a.states = appendDistinct(a.states, state, -1)

	city := f.Text(domain.CityFields...)
	if city == "" && m != nil {
		city = m[1]
	}
	a.cities = appendDistinct(a.cities, city, maxCities)

	zip := f.Text(domain.ZIPFields...)
	if !isZIP(zip) {
		zip = ""
		if zm := zipRe.FindStringSubmatch(desc); zm != nil {
			zip = zm[1]
		}
	}
	a.zips = appendDistinct(a.zips, zip, maxZIPs)
}

func (a *accumulator) cluster() Cluster {
	s := stats.ComputeStatistics(a.values)
	return Cluster{
		RegionName:   a.key,
		CenterPoint:  a.center,
		FeatureCount: s.Count,
		AverageValue: s.Mean,
		MinValue:     s.Min,
		MaxValue:     s.Max,
		StdDeviation: s.StandardDeviation,
		States:       a.states,
		Cities:       a.cities,
		ZIPCodes:     a.zips,
	}
}

// PrimaryState is the first state seen in the cluster, or "".
func (c Cluster) PrimaryState() string {
	if len(c.States) == 0 {
		return ""
	}
	return c.States[0]
}

func appendDistinct(list []string, v string, limit int) []string {
	if v == "" || (limit >= 0 && len(list) >= limit) || slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

func isZIP(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// dominantRegions returns the regions holding the most features; ties keep
// the average-value order.
func dominantRegions(clusters []Cluster) []string {
	byCount := slices.Clone(clusters)
	slices.SortStableFunc(byCount, func(a, b Cluster) int {
		return cmp.Compare(b.FeatureCount, a.FeatureCount)
	})
	out := make([]string, 0, maxDominantRegions)
	for _, c := range byCount[:min(len(byCount), maxDominantRegions)] {
		out = append(out, c.RegionName)
	}
	return out
}
