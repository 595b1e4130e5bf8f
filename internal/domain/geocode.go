package domain

import (
	"context"
	"log/slog"
)

// GeoSourceField records how a feature's location was obtained.
const GeoSourceField = "geo_source"

// EnrichWithGeocoding returns a copy of features where gaps are filled:
// a point without a state is reverse geocoded for its state code, and a
// city+state without geometry is forward geocoded to a point. Features that
// already carry both, or that fail to geocode, are returned unchanged
// (graceful degradation). The input slice is never modified.
func EnrichWithGeocoding(ctx context.Context, features []Feature, geocoder Geocoder, logger *slog.Logger) []Feature {
	if geocoder == nil || len(features) == 0 {
		return features
	}
	out := make([]Feature, len(features))
	for i := range features {
		out[i] = enrichFeature(ctx, features[i], geocoder, logger)
	}
	return out
}

func enrichFeature(ctx context.Context, f Feature, geocoder Geocoder, logger *slog.Logger) Feature {
	state := StateOf(&f)
	point, hasPoint := f.Geometry.Point()
	city := f.Text(CityFields...)

	// Reverse geocode: coordinates → state (when the state is missing).
	if hasPoint && state == "" {
		result, err := geocoder.ReverseGeocode(ctx, point.Lat, point.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"lat", point.Lat,
				"lon", point.Lon,
				"error", err,
			)
			return f.WithProperty(GeoSourceField, Text("failed"))
		}
		if result.StateCode == "" {
			return f
		}
		f = f.WithProperty("state", Text(result.StateCode))
		if city == "" && result.PlaceName != "" {
			f = f.WithProperty("city", Text(result.PlaceName))
		}
		return f.WithProperty(GeoSourceField, Text("reverse"))
	}

	// Forward geocode: city + state → point (when geometry is missing).
	if f.Geometry == nil && city != "" && state != "" {
		result, err := geocoder.ForwardGeocode(ctx, city, state)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"city", city,
				"state", state,
				"error", err,
			)
			return f.WithProperty(GeoSourceField, Text("failed"))
		}
		if result.Lat == 0 && result.Lon == 0 {
			return f
		}
		f = f.WithProperty(GeoSourceField, Text("forward"))
		f.Geometry = PointGeometry(Geo{Lat: result.Lat, Lon: result.Lon})
		return f
	}

	return f
}
