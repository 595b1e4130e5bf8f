package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/geo-digest-service/internal/observability"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string, metrics *observability.Metrics) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// counterValue gathers a single labelled counter from a throwaway registry.
func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(vec))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		for _, m := range fam.GetMetric() {
			if matchLabels(m.GetLabel(), labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels[L interface{ GetValue() string }](got []L, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	values := make(map[string]bool, len(got))
	for _, l := range got {
		values[l.GetValue()] = true
	}
	for _, w := range want {
		if !values[w] {
			return false
		}
	}
	return true
}

func serveJSON(t *testing.T, resp response) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ForwardGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "Okemos")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		resp := response{
			Features: []feature{{
				ID:        "place.123",
				Center:    []float64{-84.4275, 42.7220},
				PlaceName: "Okemos, Michigan, United States",
				Text:      "Okemos",
				Relevance: 0.95,
				Context: []contextRef{
					{ID: "region.456", Text: "Michigan", ShortCode: "US-MI"},
					{ID: "country.789", Text: "United States", ShortCode: "us"},
				},
			}},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	metrics := testMetrics()
	c := testClient(srv.URL, metrics)
	result, err := c.ForwardGeocode(context.Background(), "Okemos", "MI")
	require.NoError(t, err)

	assert.Equal(t, 42.7220, result.Lat)
	assert.Equal(t, -84.4275, result.Lon)
	assert.Equal(t, "Okemos, Michigan, United States", result.FormattedAddress)
	assert.Equal(t, "Okemos", result.PlaceName)
	assert.Equal(t, "MI", result.StateCode)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Equal(t, 1.0, counterValue(t, metrics.GeocodeRequests, "forward", "success"))
}

func TestClient_ReverseGeocode_StateFromContext(t *testing.T) {
	srv := serveJSON(t, response{
		Features: []feature{{
			ID:        "place.1",
			Center:    []float64{-97.7431, 30.2672},
			PlaceName: "Austin, Texas, United States",
			Text:      "Austin",
			Relevance: 0.98,
			Context:   []contextRef{{ID: "region.9", Text: "Texas", ShortCode: "US-TX"}},
		}},
	})

	result, err := testClient(srv.URL, testMetrics()).ReverseGeocode(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)

	assert.Equal(t, "Austin, Texas, United States", result.FormattedAddress)
	assert.Equal(t, "Austin", result.PlaceName)
	assert.Equal(t, "TX", result.StateCode)
	assert.Equal(t, 0.98, result.Confidence)
}

func TestClient_ReverseGeocode_RegionFeature(t *testing.T) {
	srv := serveJSON(t, response{
		Features: []feature{{
			ID:         "region.9",
			Text:       "California",
			Properties: properties{ShortCode: "US-CA"},
		}},
	})

	result, err := testClient(srv.URL, testMetrics()).ReverseGeocode(context.Background(), 36.7, -119.7)
	require.NoError(t, err)
	assert.Equal(t, "CA", result.StateCode)
}

func TestFeature_StateCode(t *testing.T) {
	tests := []struct {
		name string
		f    feature
		want string
	}{
		{"no context", feature{ID: "place.1"}, ""},
		{"non-us region", feature{Context: []contextRef{{ID: "region.1", ShortCode: "CA-ON"}}}, ""},
		{"unknown state", feature{Context: []contextRef{{ID: "region.1", ShortCode: "US-ZZ"}}}, ""},
		{"lowercase", feature{Context: []contextRef{{ID: "region.1", ShortCode: "us-wa"}}}, "WA"},
		{"skips non-region", feature{Context: []contextRef{
			{ID: "postcode.1", ShortCode: "US-XX"},
			{ID: "region.2", ShortCode: "US-OR"},
		}}, "OR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.stateCode())
		})
	}
}

func TestClient_ForwardGeocode_NoResults(t *testing.T) {
	srv := serveJSON(t, response{Features: []feature{}})

	metrics := testMetrics()
	result, err := testClient(srv.URL, metrics).ForwardGeocode(context.Background(), "NONEXISTENT", "XX")
	require.NoError(t, err)
	assert.Equal(t, float64(0), result.Lat)
	assert.Empty(t, result.FormattedAddress)
	assert.Equal(t, 1.0, counterValue(t, metrics.GeocodeRequests, "forward", "empty"))
}

func TestClient_ForwardGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	metrics := testMetrics()
	c := testClient(srv.URL, metrics)
	c.token = "bad-token"

	_, err := c.ForwardGeocode(context.Background(), "Lansing", "MI")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1.0, counterValue(t, metrics.GeocodeRequests, "forward", "error"))
}

func TestClient_ForwardGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL, testMetrics())
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := c.ForwardGeocode(context.Background(), "Lansing", "MI")
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(testToken, time.Second, testMetrics(), slog.Default())
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}
