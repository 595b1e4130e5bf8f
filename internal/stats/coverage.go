package stats

import (
	"regexp"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

// Coverage bands by feature count.
const (
	CoverageLimited      = "Limited Regional"
	CoverageMetropolitan = "Metropolitan Area"
	CoverageMultiState   = "Multi-State Region"
	CoverageNational     = "National Coverage"
)

// stateTokenRe matches standalone two-letter uppercase tokens, e.g. "(Austin, TX)" -> "TX".
var stateTokenRe = regexp.MustCompile(`\b([A-Z]{2})\b`)

// Coverage summarizes where a feature collection lies.
type Coverage struct {
	TotalRegions int
	// UniqueStates is zero when no state could be identified.
	UniqueStates    int
	CoverageType    string
	HasDescriptions bool
}

// SummarizeGeographicCoverage scans features once for state codes, taken from
// explicit state fields or from postal codes embedded in descriptions.
func SummarizeGeographicCoverage(features []domain.Feature) Coverage {
	states := make(map[string]struct{})
	hasDesc := false
	for i := range features {
		f := &features[i]
		desc := f.Text(domain.DescriptionFields...)
		if desc != "" {
			hasDesc = true
		}
		if st := domain.StateOf(f); st != "" {
			states[st] = struct{}{}
			continue
		}
		if st := StateFromText(desc); st != "" {
			states[st] = struct{}{}
		}
	}
	return Coverage{
		TotalRegions:    len(features),
		UniqueStates:    len(states),
		CoverageType:    CoverageType(len(features)),
		HasDescriptions: hasDesc,
	}
}

// CoverageType bands a feature count.
func CoverageType(n int) string {
	switch {
	case n < 100:
		return CoverageLimited
	case n < 1000:
		return CoverageMetropolitan
	case n < 5000:
		return CoverageMultiState
	default:
		return CoverageNational
	}
}

// StateFromText returns the first postal state code found in s.
func StateFromText(s string) string {
	if s == "" {
		return ""
	}
	for _, m := range stateTokenRe.FindAllStringSubmatch(s, -1) {
		if domain.IsStateCode(m[1]) {
			return m[1]
		}
	}
	return ""
}
