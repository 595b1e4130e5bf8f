package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/summarize"
)

// DigestTransformer implements Transformer by summarizing each request, with
// optional geocoding enrichment of the features first.
type DigestTransformer struct {
	summarizer *summarize.Summarizer
	geocoder   domain.Geocoder
	logger     *slog.Logger
	maxBytes   int
}

// NewTransformer creates a DigestTransformer. Pass a nil geocoder to disable
// geocoding enrichment. maxBytes is the digest ceiling for requests that do
// not set one; 0 means unlimited.
func NewTransformer(s *summarize.Summarizer, geocoder domain.Geocoder, maxBytes int, logger *slog.Logger) *DigestTransformer {
	return &DigestTransformer{
		summarizer: s,
		geocoder:   geocoder,
		logger:     logger,
		maxBytes:   maxBytes,
	}
}

// Transform decodes a request message and encodes its digest.
func (t *DigestTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputMessage, error) {
	req, err := domain.ParseSummarizeRequest(raw)
	if err != nil {
		return domain.OutputMessage{}, err
	}
	resp, err := t.Digest(ctx, req)
	if err != nil {
		return domain.OutputMessage{}, err
	}
	return domain.SerializeDigest(resp)
}

// Digest summarizes req. Requests without an ID are assigned one.
func (t *DigestTransformer) Digest(ctx context.Context, req domain.SummarizeRequest) (domain.DigestResponse, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	opts := req.EffectiveOptions()
	if opts.MaxBytes == 0 {
		opts.MaxBytes = t.maxBytes
	}

	layers := req.Layers
	if t.geocoder != nil {
		layers = make([]domain.LayerResult, len(req.Layers))
		for i, l := range req.Layers {
			l.Features = domain.EnrichWithGeocoding(ctx, l.Features, t.geocoder, t.logger)
			layers[i] = l
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.DigestResponse{}, err
	}

	res := t.summarizer.Summarize(layers, req.LayerConfigs, opts)
	t.logger.Debug("digest built",
		"request_id", req.ID,
		"layers", res.LayerCount,
		"features", res.FeatureCount,
		"bytes", res.ByteSize,
	)

	return domain.DigestResponse{
		RequestID:             req.ID,
		AnalysisType:          opts.AnalysisType,
		Digest:                res.Digest,
		ByteSize:              res.ByteSize,
		EstimatedReductionPct: res.EstimatedReductionPct,
		LayerCount:            res.LayerCount,
		FeatureCount:          res.FeatureCount,
		ElapsedMillis:         res.Elapsed.Milliseconds(),
		GeneratedAt:           domain.Now().UTC(),
	}, nil
}
