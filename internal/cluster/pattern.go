package cluster

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/geo-digest-service/internal/stats"
)

// PatternType classifies a spatial pattern.
type PatternType string

const (
	PatternHotspot   PatternType = "hotspot"
	PatternColdspot  PatternType = "coldspot"
	PatternUniform   PatternType = "uniform"
	PatternDispersed PatternType = "dispersed"
)

const maxPatternRegions = 3

// Pattern is one detected spatial pattern.
type Pattern struct {
	Type        PatternType
	Intensity   float64
	Description string
}

// detectPatterns compares cluster averages with the cross-cluster mean and
// σ. Hotspots sit above mean+σ and coldspots below mean−σ. Independently, the
// mean within-cluster σ relative to the cross-cluster σ marks the layer as
// uniform (<0.5) or dispersed (>1.5). clusters must be sorted by descending average.
func detectPatterns(clusters []Cluster) []Pattern {
	patterns := []Pattern{}
	if len(clusters) == 0 {
		return patterns
	}

	avgs := make([]float64, len(clusters))
	within := make([]float64, len(clusters))
	for i, c := range clusters {
		avgs[i] = c.AverageValue
		within[i] = c.StdDeviation
	}
	mean, std := stats.MeanStdDev(avgs)

	var hot, cold []string
	for _, c := range clusters {
		switch {
		case c.AverageValue > mean+std:
			hot = append(hot, c.RegionName)
		case c.AverageValue < mean-std:
			cold = append(cold, c.RegionName)
		}
	}
	// coldest first
	for i, j := 0, len(cold)-1; i < j; i, j = i+1, j-1 {
		cold[i], cold[j] = cold[j], cold[i]
	}

	n := float64(len(clusters))
	if len(hot) > 0 {
		patterns = append(patterns, Pattern{
			Type:      PatternHotspot,
			Intensity: float64(len(hot)) / n,
			Description: fmt.Sprintf("%d high-value region(s) above %s: %s",
				len(hot), stats.FormatNumber(mean+std), joinFirst(hot, maxPatternRegions)),
		})
	}
	if len(cold) > 0 {
		patterns = append(patterns, Pattern{
			Type:      PatternColdspot,
			Intensity: float64(len(cold)) / n,
			Description: fmt.Sprintf("%d low-value region(s) below %s: %s",
				len(cold), stats.FormatNumber(mean-std), joinFirst(cold, maxPatternRegions)),
		})
	}

	if std > 0 {
		ratio := stats.Mean(within) / std
		switch {
		case ratio < 0.5:
			patterns = append(patterns, Pattern{
				Type:        PatternUniform,
				Intensity:   ratio,
				Description: "values are consistent within regions and differ mainly between them",
			})
		case ratio > 1.5:
			patterns = append(patterns, Pattern{
				Type:        PatternDispersed,
				Intensity:   ratio,
				Description: "values vary more within regions than between them",
			})
		}
	}
	return patterns
}

func joinFirst(names []string, n int) string {
	return strings.Join(names[:min(len(names), n)], ", ")
}

// moransI is a simplified Moran's I where clusters are neighbors when they
// share a primary state (weight 1 per unordered pair):
//
//	I = (N / ΣW) × (Σ w·dᵢ·dⱼ / Σ dᵢ²),  dᵢ = avgᵢ − mean(avg)
//
// clamped to [−1, 1]. It is nil with fewer than two clusters, no same-state
// pairs, or zero total deviation.
func moransI(clusters []Cluster) *float64 {
	n := len(clusters)
	if n < 2 {
		return nil
	}
	avgs := make([]float64, n)
	for i, c := range clusters {
		avgs[i] = c.AverageValue
	}
	mean := stats.Mean(avgs)

	var sumSq float64
	for _, a := range avgs {
		d := a - mean
		sumSq += d * d
	}

	var weights, cross float64
	for i := 0; i < n; i++ {
		si := clusters[i].PrimaryState()
		if si == "" {
			continue
		}
		for j := i + 1; j < n; j++ {
			if clusters[j].PrimaryState() != si {
				continue
			}
			weights++
			cross += (avgs[i] - mean) * (avgs[j] - mean)
		}
	}
	if weights == 0 || sumSq == 0 {
		return nil
	}

	v := (float64(n) / weights) * (cross / sumSq)
	v = min(max(v, -1), 1)
	return &v
}
