package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummarizeRequest(t *testing.T) {
	raw := RawMessage{
		Key: []byte("req-7"),
		Value: []byte(`{
			"layers": [{"id": "zips", "name": "ZIP Codes", "features": [
				{"type": "Feature", "properties": {"ZIP": "48823", "value": 12.5}}
			]}],
			"layer_configs": {"zips": {"renderer_field": "value"}},
			"options": {"analysis_type": "hotspot-analysis", "include_outliers": true}
		}`),
	}

	req, err := ParseSummarizeRequest(raw)
	require.NoError(t, err)

	assert.Equal(t, "req-7", req.ID)
	require.Len(t, req.Layers, 1)
	assert.Equal(t, "ZIP Codes", req.Layers[0].Name)
	v, ok := req.Layers[0].Features[0].Get("value").Float()
	require.True(t, ok)
	assert.Equal(t, 12.5, v)
	assert.Equal(t, "value", req.LayerConfigs["zips"].RendererField)

	opts := req.EffectiveOptions()
	assert.Equal(t, AnalysisHotspot, opts.AnalysisType)
	assert.True(t, opts.IncludeOutliers)
	assert.Equal(t, 10, opts.TopPerformers)
}

func TestParseSummarizeRequest_KeepsExplicitID(t *testing.T) {
	req, err := ParseSummarizeRequest(RawMessage{Key: []byte("key"), Value: []byte(`{"id":"own","layers":[]}`)})
	require.NoError(t, err)
	assert.Equal(t, "own", req.ID)
	assert.Equal(t, DefaultOptions(), req.EffectiveOptions())
}

func TestParseSummarizeRequest_Invalid(t *testing.T) {
	_, err := ParseSummarizeRequest(RawMessage{Value: []byte("not json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode summarize request")
}

func TestSerializeDigest(t *testing.T) {
	at := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	resp := DigestResponse{
		RequestID:    "req-1",
		AnalysisType: AnalysisStrategic,
		Digest:       "## Layer 1 of 1: Counties\n",
		ByteSize:     26,
		LayerCount:   1,
		FeatureCount: 3,
		GeneratedAt:  at,
	}

	out, err := SerializeDigest(resp)
	require.NoError(t, err)

	assert.Equal(t, []byte("req-1"), out.Key)
	want := map[string]string{"analysis_type": "strategic-analysis", "generated_at": "2026-03-02T09:30:00Z"}
	if diff := cmp.Diff(want, out.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out.Value, &fields))
	assert.Equal(t, "req-1", fields["request_id"])
	assert.EqualValues(t, 3, fields["feature_count"])
	assert.Contains(t, fields, "elapsed_ms")
}
