// Package summarize assembles the digest for a whole request: one segment per
// layer, in input order, with per-layer failures isolated into inline error
// segments.
package summarize

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/geo-digest-service/internal/digest"
	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/observability"
	"github.com/couchcryptid/geo-digest-service/internal/stats"
)

// CharsPerFeature is the rough size of one feature when enumerated in full.
// It only feeds the reduction estimate.
const CharsPerFeature = 500

const unknownLayer = "Unknown Layer"

// Layer outcomes, used as the metrics label.
const (
	outcomeOK      = "ok"
	outcomeEmpty   = "empty"
	outcomeError   = "error"
	outcomeOmitted = "omitted"
)

// Result is the digest plus diagnostics. Diagnostics never influence the digest.
type Result struct {
	Digest                string
	ByteSize              int
	EstimatedReductionPct float64
	LayerCount            int
	FeatureCount          int
	Elapsed               time.Duration
}

// Summarizer turns layers into a digest. It holds no per-call state and is
// safe for concurrent use.
type Summarizer struct {
	filter  Filter
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	workers int
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithWorkers processes up to n layers at once. Output order is unaffected.
func WithWorkers(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock sets the clock used for elapsed time.
func WithClock(c clockwork.Clock) Option {
	return func(s *Summarizer) { s.clock = c }
}

// New creates a Summarizer. A nil filter passes every feature through.
func New(filter Filter, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Summarizer {
	if filter == nil {
		filter = PassThrough
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	s := &Summarizer{
		filter:  filter,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
		workers: 1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type segment struct {
	name     string
	text     string
	features int
	outcome  string
}

// Summarize builds the digest for layers. configs is keyed by layer ID and
// may be nil.
func (s *Summarizer) Summarize(layers []domain.LayerResult, configs map[string]domain.LayerConfig, opts domain.Options) Result {
	start := s.clock.Now()
	opts = opts.Normalized()

	segs := make([]segment, len(layers))
	if s.workers > 1 && len(layers) > 1 {
		var g errgroup.Group
		g.SetLimit(s.workers)
		for i := range layers {
			g.Go(func() error {
				segs[i] = s.layer(i, len(layers), layers[i], configs, opts)
				return nil
			})
		}
		_ = g.Wait() // layer never returns an error
	} else {
		for i := range layers {
			segs[i] = s.layer(i, len(layers), layers[i], configs, opts)
		}
	}

	res := Result{LayerCount: len(layers)}
	var b strings.Builder
	for _, seg := range segs {
		text := seg.text
		if b.Len() > 0 {
			text = "\n" + text
		}
		if opts.MaxBytes > 0 && b.Len()+len(text) > opts.MaxBytes {
			text = omissionNotice(seg.name, opts.MaxBytes)
			if b.Len() > 0 {
				text = "\n" + text
			}
			seg.outcome = outcomeOmitted
			s.logger.Warn("layer omitted from digest", "layer", seg.name, "max_bytes", opts.MaxBytes)
		}
		b.WriteString(text)
		res.FeatureCount += seg.features
		s.metrics.LayersProcessed.WithLabelValues(seg.outcome).Inc()
	}

	res.Digest = b.String()
	res.ByteSize = len(res.Digest)
	res.EstimatedReductionPct = ReductionPct(res.ByteSize, res.FeatureCount)
	res.Elapsed = s.clock.Since(start)

	s.metrics.DigestBytes.Observe(float64(res.ByteSize))
	s.metrics.ReductionPercent.Observe(res.EstimatedReductionPct)
	s.metrics.SummarizeDuration.Observe(res.Elapsed.Seconds())
	s.metrics.FeaturesSummarized.Add(float64(res.FeatureCount))
	return res
}

func (s *Summarizer) layer(i, total int, layer domain.LayerResult, configs map[string]domain.LayerConfig, opts domain.Options) (seg segment) {
	cfg := configs[layer.ID]
	name := LayerName(layer, cfg)
	seg.name = name

	defer func() {
		if r := recover(); r != nil {
			seg = s.failed(name, fmt.Errorf("panic: %v", r))
		}
	}()

	features, err := s.filter.Apply(layer)
	if err != nil {
		return s.failed(name, fmt.Errorf("filter: %w", err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Layer %d of %d: %s (%d features)\n", i+1, total, name, len(features))
	if len(features) == 0 {
		b.WriteString("Layer has no features after filtering.\n")
		return segment{name: name, text: b.String(), outcome: outcomeEmpty}
	}

	field := ResolveField(features, cfg, opts.AnalysisType)
	if opts.IncludeStatistics {
		b.WriteString(stats.Foundation(features, field))
		b.WriteString("\n")
	}
	b.WriteString(digest.Build(features, opts.AnalysisType, field, opts))

	s.logger.Debug("layer summarized", "layer", name, "field", field, "features", len(features))
	return segment{name: name, text: b.String(), features: len(features), outcome: outcomeOK}
}

func (s *Summarizer) failed(name string, err error) segment {
	s.logger.Warn("layer summary failed", "layer", name, "error", err)
	return segment{
		name:    name,
		text:    fmt.Sprintf("[LAYER ERROR: %s] summary unavailable: %v\n", name, err),
		outcome: outcomeError,
	}
}

func omissionNotice(name string, limit int) string {
	return fmt.Sprintf("[LAYER OMITTED: %s] digest size limit of %d bytes reached.\n", name, limit)
}

// LayerName resolves the display name: layer name, then config name, then
// layer ID, then "Unknown Layer".
func LayerName(layer domain.LayerResult, cfg domain.LayerConfig) string {
	for _, n := range []string{layer.Name, cfg.Name, layer.ID} {
		if strings.TrimSpace(n) != "" {
			return n
		}
	}
	return unknownLayer
}

// ReductionPct estimates how much smaller the digest is than enumerating
// every feature, clamped to [0, 100].
func ReductionPct(digestBytes, features int) float64 {
	estimate := features * CharsPerFeature
	if estimate <= 0 {
		return 0
	}
	pct := (1 - float64(digestBytes)/float64(estimate)) * 100
	return min(max(pct, 0), 100)
}
