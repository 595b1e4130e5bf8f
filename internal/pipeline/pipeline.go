package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/observability"
)

// BatchExtractor reads up to batchSize summarize requests from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawMessage, error)
}

// Transformer turns one summarize request into a digest message.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawMessage) (domain.OutputMessage, error)
}

// BatchLoader writes digest messages to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, msgs []domain.OutputMessage) error
}

// Pipeline runs the request-to-digest loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	ready       atomic.Bool
	batchSize   int
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil if the pipeline has produced at least one digest,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not produced any digests yet")
	}
	return nil
}

// Run consumes requests in batches until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff between failed extracts or loads, capped at maxBackoff.
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := p.clock.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = initialBackoff

	loaded, ok := p.transformAndLoad(ctx, rawBatch, backoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.BatchProcessingDuration.Observe(p.clock.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// transformAndLoad summarizes each request, loads the digests, and commits
// offsets. A request that cannot be summarized is committed and skipped so it
// does not block its partition. Returns the number of digests loaded and
// false if the pipeline should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawMessage, backoff *time.Duration) (int, bool) {
	outBatch := make([]domain.OutputMessage, 0, len(rawBatch))
	successfulRaws := make([]domain.RawMessage, 0, len(rawBatch))

	for _, raw := range rawBatch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("summarize failed, skipping request",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		outBatch = append(outBatch, out)
		successfulRaws = append(successfulRaws, raw)
	}

	if len(outBatch) == 0 {
		return 0, true
	}

	if err := p.loader.LoadBatch(ctx, outBatch); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
		return 0, p.backoffOrStop(ctx, backoff)
	}

	p.metrics.MessagesProduced.Add(float64(len(outBatch)))

	for _, raw := range successfulRaws {
		p.commitOffset(ctx, raw)
	}

	return len(outBatch), true
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawMessage) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
