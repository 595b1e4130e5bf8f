package summarize

import (
	"slices"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

// Identifier columns that are numeric but never worth summarizing.
var identifierFields = map[string]struct{}{
	"OBJECTID": {}, "objectid": {}, "FID": {}, "fid": {}, "ID": {}, "id": {},
}

// ResolveField picks the numeric field to summarize, in priority order: the
// layer's renderer field, the analysis type's known field, the generic
// fallbacks, the first numeric property found, and finally the sentinel
// domain.UnknownField. Only the renderer field is taken without checking the
// data.
func ResolveField(features []domain.Feature, cfg domain.LayerConfig, t domain.AnalysisType) string {
	if cfg.RendererField != "" {
		return cfg.RendererField
	}
	if f, ok := domain.KnownField(t); ok && hasNumeric(features, f) {
		return f
	}
	for _, f := range domain.GenericFields {
		if hasNumeric(features, f) {
			return f
		}
	}
	if f := firstNumeric(features); f != "" {
		return f
	}
	return domain.UnknownField
}

func hasNumeric(features []domain.Feature, field string) bool {
	for i := range features {
		if _, ok := features[i].Get(field).Float(); ok {
			return true
		}
	}
	return false
}

// firstNumeric scans features in order; within a feature, keys are tried
// alphabetically so the choice does not depend on map order.
func firstNumeric(features []domain.Feature) string {
	for i := range features {
		props := features[i].Props()
		keys := make([]string, 0, len(props))
		for k := range props {
			if _, skip := identifierFields[k]; !skip {
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
		for _, k := range keys {
			if _, ok := props[k].Float(); ok {
				return k
			}
		}
	}
	return ""
}
