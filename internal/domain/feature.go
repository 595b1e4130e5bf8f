package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geometry is a GeoJSON-style geometry. Only Point coordinates are ever
// decoded; polygons are carried opaquely.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
}

// PointGeometry builds a Point geometry from a coordinate pair.
func PointGeometry(g Geo) *Geometry {
	coords, _ := json.Marshal([]float64{g.Lon, g.Lat})
	return &Geometry{Type: "Point", Coordinates: coords}
}

// Point returns the coordinates of a Point geometry. GeoJSON orders them lon, lat.
func (g *Geometry) Point() (Geo, bool) {
	if g == nil || !strings.EqualFold(g.Type, "Point") || len(g.Coordinates) == 0 {
		return Geo{}, false
	}
	var c []float64
	if err := json.Unmarshal(g.Coordinates, &c); err != nil || len(c) < 2 {
		return Geo{}, false
	}
	return Geo{Lat: c[1], Lon: c[0]}, true
}

// Feature is one geographic record: a property mapping plus optional geometry.
// The engine treats features as read-only.
type Feature struct {
	// Properties holds GeoJSON "properties" or ArcGIS "attributes".
	Properties map[string]Value
	// Attributes holds the remaining top-level keys of a flat record.
	Attributes map[string]Value
	Geometry   *Geometry
}

// NewFeature builds a flat-property feature from plain Go scalars.
func NewFeature(props map[string]any) Feature {
	p := make(map[string]Value, len(props))
	for k, v := range props {
		p[k] = ValueOf(v)
	}
	return Feature{Properties: p}
}

// Props returns the property mapping, falling back to the record's own
// top-level attributes when no nested mapping was supplied.
func (f *Feature) Props() map[string]Value {
	if f.Properties != nil {
		return f.Properties
	}
	return f.Attributes
}

// Get returns the value stored under key, or Null.
func (f *Feature) Get(key string) Value {
	return f.Props()[key]
}

// Text returns the first non-empty text value among keys.
func (f *Feature) Text(keys ...string) string {
	props := f.Props()
	for _, k := range keys {
		if s := strings.TrimSpace(props[k].Str()); s != "" {
			return s
		}
	}
	return ""
}

// WithProperty returns a copy of f with key set to v. The receiver is untouched.
func (f Feature) WithProperty(key string, v Value) Feature {
	props := maps.Clone(f.Props())
	if props == nil {
		props = make(map[string]Value, 1)
	}
	props[key] = v
	f.Properties = props
	return f
}

// UnmarshalJSON accepts GeoJSON features, ArcGIS features and flat records.
func (f *Feature) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode feature: %w", err)
	}
	*f = Feature{}
	for key, msg := range raw {
		switch key {
		case "properties", "attributes":
			var props map[string]Value
			if err := json.Unmarshal(msg, &props); err != nil {
				return fmt.Errorf("decode feature %s: %w", key, err)
			}
			if props != nil {
				f.Properties = props
			}
		case "geometry":
			var g Geometry
			if err := json.Unmarshal(msg, &g); err != nil {
				return fmt.Errorf("decode feature geometry: %w", err)
			}
			if g.Type != "" {
				f.Geometry = &g
			}
		case "type":
			if string(msg) == `"Feature"` {
				continue
			}
			fallthrough
		default:
			var v Value
			if err := json.Unmarshal(msg, &v); err != nil {
				return fmt.Errorf("decode feature field %q: %w", key, err)
			}
			if f.Attributes == nil {
				f.Attributes = make(map[string]Value)
			}
			f.Attributes[key] = v
		}
	}
	return nil
}

// MarshalJSON writes the GeoJSON form.
func (f Feature) MarshalJSON() ([]byte, error) {
	out := struct {
		Type       string           `json:"type"`
		Properties map[string]Value `json:"properties"`
		Geometry   *Geometry        `json:"geometry,omitempty"`
	}{
		Type:       "Feature",
		Properties: f.Props(),
		Geometry:   f.Geometry,
	}
	return json.Marshal(out)
}
