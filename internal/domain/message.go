package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RawMessage represents an unprocessed summarize request read from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// DigestResponse is the serialized result returned over HTTP and published to the sink topic.
type DigestResponse struct {
	RequestID             string       `json:"request_id"`
	AnalysisType          AnalysisType `json:"analysis_type"`
	Digest                string       `json:"digest"`
	ByteSize              int          `json:"byte_size"`
	EstimatedReductionPct float64      `json:"estimated_reduction_pct"`
	LayerCount            int          `json:"layer_count"`
	FeatureCount          int          `json:"feature_count"`
	ElapsedMillis         int64        `json:"elapsed_ms"`
	GeneratedAt           time.Time    `json:"generated_at"`
}

// OutputMessage is the serialized form destined for the sink topic.
type OutputMessage struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ParseSummarizeRequest decodes a request message. A request without an ID
// takes the message key.
func ParseSummarizeRequest(raw RawMessage) (SummarizeRequest, error) {
	var req SummarizeRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return SummarizeRequest{}, fmt.Errorf("decode summarize request: %w", err)
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	return req, nil
}

// SerializeDigest encodes resp for the sink topic, keyed by request ID.
func SerializeDigest(resp DigestResponse) (OutputMessage, error) {
	value, err := json.Marshal(resp)
	if err != nil {
		return OutputMessage{}, fmt.Errorf("encode digest response: %w", err)
	}
	return OutputMessage{
		Key:   []byte(resp.RequestID),
		Value: value,
		Headers: map[string]string{
			"analysis_type": string(resp.AnalysisType),
			"generated_at":  resp.GeneratedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}
