// Package domain models the geographic feature layers that are condensed into
// text digests for a downstream language-model service.
//
// # Features
//
// A feature is one record of a map layer: a property bag plus optional
// geometry. Layers arrive in three shapes and all decode into [Feature]:
//
//	GeoJSON:  {"type":"Feature","properties":{...},"geometry":{...}}
//	ArcGIS:   {"attributes":{...},"geometry":{...}}
//	Flat:     {"DESCRIPTION":"...","value":42}
//
// Property values are narrowed to [Value]: number, text, or null. Booleans,
// nested objects and arrays carry no analytic meaning here and decode as null.
// Only finite numbers count as numeric; numeric-looking strings stay text.
//
// # Location conventions
//
// Location is read from property names in [StateFields], [CountyFields] and
// [CityFields]. Descriptions frequently embed the location instead:
//
//	"78701 (Austin, TX)"     ZIP-level area with a trailing city and state
//	"Lansing, MI"            city, state
//
// State codes found in free text are only trusted when they appear in the US
// postal code table ([IsStateCode]).
//
// # Analysis types
//
// Each [AnalysisType] names a builder in the digest package and a
// conventional score field ([KnownField]). Unknown identifiers are legal and
// fall back to the standard builder.
//
// # Lifecycle
//
// Everything derived from features (series, summaries, clusters, outlier
// records) lives for one request. Features are never mutated; enrichment
// ([EnrichWithGeocoding]) returns copies.
package domain
