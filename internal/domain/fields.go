package domain

import "strconv"

// Property names checked when a feature's location or label is needed. Layers
// come from different publishers, so each concept has several spellings.
var (
	StateFields       = []string{"state", "STATE", "state_code", "STATE_ABBR", "ST"}
	CountyFields      = []string{"county", "COUNTY", "county_name", "COUNTY_NAME"}
	CityFields        = []string{"city", "CITY", "city_name", "PLACE_NAME"}
	ZIPFields         = []string{"zip", "ZIP", "zip_code", "ZIP_CODE", "postal_code", "ID"}
	DescriptionFields = []string{"DESCRIPTION", "description", "desc", "area_description"}
	NameFields        = []string{"DESCRIPTION", "description", "name", "NAME", "area_name", "ID", "id"}
)

// GenericFields is the short fallback list tried when neither the layer config
// nor the analysis type names a field present in the data.
var GenericFields = []string{"value", "score", "thematic_value", "total", "count"}

// UnknownField is the sentinel used when no numeric field can be resolved.
const UnknownField = "unknown_field"

var stateCodes = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "DC": {},
	"FL": {}, "GA": {}, "HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {},
	"LA": {}, "ME": {}, "MD": {}, "MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {},
	"NE": {}, "NV": {}, "NH": {}, "NJ": {}, "NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {},
	"OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {}, "SD": {}, "TN": {}, "TX": {}, "UT": {},
	"VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {}, "PR": {}, "GU": {}, "VI": {},
}

// IsStateCode reports whether s is a US state or territory postal code.
func IsStateCode(s string) bool {
	_, ok := stateCodes[s]
	return ok
}

// StateOf returns the explicit state code of a feature, if any.
func StateOf(f *Feature) string {
	return f.Text(StateFields...)
}

// Label returns a human-readable name for a feature, falling back to
// "Feature #n" (1-based).
func Label(f *Feature, index int) string {
	if s := f.Text(NameFields...); s != "" {
		return s
	}
	return "Feature #" + strconv.Itoa(index+1)
}
