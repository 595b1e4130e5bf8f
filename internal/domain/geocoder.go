package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	StateCode        string  // two-letter postal code, empty when the provider has none
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder fills in location data for features that lack it.
type Geocoder interface {
	// ForwardGeocode converts a place name and state to coordinates.
	ForwardGeocode(ctx context.Context, name, state string) (GeocodingResult, error)
	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
