package cluster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/geo-digest-service/internal/stats"
)

// Format renders the geographic cluster section for field.
func (r Result) Format(field string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[GEOGRAPHIC CLUSTERS: %s]\n", field)
	if len(r.Clusters) == 0 {
		b.WriteString("No geographic clusters could be formed from the available values.\n")
		return b.String()
	}

	if r.TotalClusters > len(r.Clusters) {
		fmt.Fprintf(&b, "%d regions identified; top %d by average value:\n", r.TotalClusters, len(r.Clusters))
	} else {
		fmt.Fprintf(&b, "%d regions identified, by average value:\n", r.TotalClusters)
	}
	for i, c := range r.Clusters {
		fmt.Fprintf(&b, "%d. %s: avg %s (range %s to %s, σ %s, %d features)",
			i+1, c.RegionName, stats.FormatNumber(c.AverageValue),
			stats.FormatNumber(c.MinValue), stats.FormatNumber(c.MaxValue),
			stats.FormatNumber(c.StdDeviation), c.FeatureCount)
		if len(c.Cities) > 0 {
			b.WriteString(" | cities: " + strings.Join(c.Cities, ", "))
		}
		if len(c.ZIPCodes) > 0 {
			fmt.Fprintf(&b, " | %d ZIPs", len(c.ZIPCodes))
		}
		b.WriteString("\n")
	}

	if len(r.Patterns) > 0 {
		b.WriteString("Spatial patterns:\n")
		for _, p := range r.Patterns {
			fmt.Fprintf(&b, "- %s (intensity %s): %s\n",
				strings.ToUpper(string(p.Type)), strconv.FormatFloat(p.Intensity, 'f', 2, 64), p.Description)
		}
	}
	if len(r.DominantRegions) > 0 {
		b.WriteString("Dominant regions by feature count: " + strings.Join(r.DominantRegions, ", ") + "\n")
	}
	if r.SpatialAutocorrelation != nil {
		fmt.Fprintf(&b, "Spatial autocorrelation (Moran's I, same-state regions): %s (%s)\n",
			strconv.FormatFloat(*r.SpatialAutocorrelation, 'f', 2, 64), describeMoran(*r.SpatialAutocorrelation))
	}
	return b.String()
}

func describeMoran(i float64) string {
	switch {
	case i > 0.3:
		return "similar values cluster together"
	case i < -0.3:
		return "neighboring regions tend to differ"
	default:
		return "no clear spatial structure"
	}
}
