package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/observability"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ForwardGeocode converts a place name and state to coordinates.
func (c *Client) ForwardGeocode(ctx context.Context, name, state string) (domain.GeocodingResult, error) {
	query := name
	if state != "" {
		query = fmt.Sprintf("%s, %s", name, state)
	}

	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"country":      {"us"},
		"types":        {"place,locality,postcode"},
	}

	return c.doRequest(ctx, u+"?"+params.Encode(), "forward")
}

// ReverseGeocode converts coordinates to place details, including the state
// postal code when Mapbox reports one.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	// Mapbox uses lon,lat order.
	coord := fmt.Sprintf("%.6f,%.6f", lon, lat)
	u := fmt.Sprintf("%s/%s.json", c.baseURL, coord)
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality"},
	}

	return c.doRequest(ctx, u+"?"+params.Encode(), "reverse")
}

func (c *Client) doRequest(ctx context.Context, fullURL, method string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("%s geocode request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.GeocodingResult{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(method, "error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues(method, "empty").Inc()
		c.logger.Debug("geocode returned no features", "method", method)
		return domain.GeocodingResult{}, nil
	}
	c.metrics.GeocodeRequests.WithLabelValues(method, "success").Inc()

	f := mapboxResp.Features[0]
	result := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		StateCode:        f.stateCode(),
		Confidence:       f.Relevance,
	}
	if len(f.Center) == 2 {
		result.Lon = f.Center[0]
		result.Lat = f.Center[1]
	}
	return result, nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string       `json:"id"`
	Center     []float64    `json:"center"` // [lon, lat]
	PlaceName  string       `json:"place_name"`
	Text       string       `json:"text"`
	Relevance  float64      `json:"relevance"`
	Properties properties   `json:"properties"`
	Context    []contextRef `json:"context"`
}

type properties struct {
	ShortCode string `json:"short_code"`
}

// contextRef is one ancestor of a feature (postcode, place, region, country).
type contextRef struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code"`
}

// stateCode extracts the two-letter state from a region short code such as
// "US-TX". The feature itself is checked first in case it is the region.
func (f feature) stateCode() string {
	if strings.HasPrefix(f.ID, "region.") {
		if s := regionCode(f.Properties.ShortCode); s != "" {
			return s
		}
	}
	for _, ref := range f.Context {
		if !strings.HasPrefix(ref.ID, "region.") {
			continue
		}
		if s := regionCode(ref.ShortCode); s != "" {
			return s
		}
	}
	return ""
}

func regionCode(shortCode string) string {
	country, state, ok := strings.Cut(strings.ToUpper(shortCode), "-")
	if !ok || country != "US" || !domain.IsStateCode(state) {
		return ""
	}
	return state
}
