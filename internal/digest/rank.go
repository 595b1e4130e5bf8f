package digest

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/geo-digest-service/internal/stats"
)

// Descending returns a fresh copy of obs sorted by value, highest first; ties
// keep feature order.
func Descending(obs []stats.Observation) []stats.Observation {
	out := slices.Clone(obs)
	slices.SortStableFunc(out, func(a, b stats.Observation) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return out
}

// Rank returns the top n and bottom m observations. Bottom is the tail of the
// descending order reversed, so the lowest value comes first. When every
// observation already fits in the top list, bottom is empty.
func Rank(obs []stats.Observation, n, m int) (top, bottom []stats.Observation) {
	desc := Descending(obs)
	top = desc[:min(max(n, 0), len(desc))]
	if len(desc) <= n || m <= 0 {
		return top, nil
	}
	tail := slices.Clone(desc[max(len(desc)-m, 0):])
	slices.Reverse(tail)
	return top, tail
}

// Tier is one performance band over the descending order.
type Tier struct {
	Name  string
	Count int
	Min   float64
	Max   float64
	Mean  float64
}

var tierBands = []struct {
	name   string
	cutoff float64
}{
	{"Top 10%", 0.1},
	{"Next 20%", 0.3},
	{"Middle 40%", 0.7},
	{"Bottom 30%", 1.0},
}

// Tiers splits obs into four fixed bands (top 10%, next 20%, next 40%,
// bottom 30%) using boundaries floor(n×cutoff) on the descending order.
// Small inputs can leave bands empty.
func Tiers(obs []stats.Observation) []Tier {
	desc := Descending(obs)
	n := len(desc)
	tiers := make([]Tier, 0, len(tierBands))
	start := 0
	for _, band := range tierBands {
		end := int(float64(n) * band.cutoff)
		end = min(max(end, start), n)
		t := Tier{Name: band.name, Count: end - start}
		if t.Count > 0 {
			vals := make([]float64, 0, t.Count)
			for _, o := range desc[start:end] {
				vals = append(vals, o.Value)
			}
			t.Max = vals[0]
			t.Min = vals[len(vals)-1]
			t.Mean = stats.Mean(vals)
		}
		tiers = append(tiers, t)
		start = end
	}
	return tiers
}
