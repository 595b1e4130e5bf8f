package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "geo_digest"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// digest service.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Summarization metrics.
	LayersProcessed    *prometheus.CounterVec // labels: outcome={ok,empty,error,omitted}
	DigestBytes        prometheus.Histogram
	ReductionPercent   prometheus.Histogram
	SummarizeDuration  prometheus.Histogram
	FeaturesSummarized prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={forward,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={forward,reverse}, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={forward,reverse}
	GeocodeEnabled     prometheus.Gauge
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_consumed_total",
			Help:      help("Total summarize requests read from the request topic."),
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_produced_total",
			Help:      help("Total digests written to the digest topic."),
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      help("Total requests that could not be turned into a digest."),
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      help("1 when the pipeline is active, 0 when shut down."),
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      help("Number of requests per batch extracted from Kafka."),
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      help("Duration of a complete batch extract-transform-load cycle."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		LayersProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layers_processed_total",
			Help:      help("Layers summarized, by outcome."),
		}, []string{"outcome"}),
		DigestBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "digest_bytes",
			Help:      help("Size in bytes of each produced digest."),
			Buckets:   prometheus.ExponentialBuckets(256, 2, 10),
		}),
		ReductionPercent: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimated_reduction_percent",
			Help:      help("Estimated size reduction of each digest against full feature enumeration."),
			Buckets:   []float64{0, 25, 50, 75, 90, 95, 99, 100},
		}),
		SummarizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summarize_duration_seconds",
			Help:      help("Time spent building one digest."),
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		FeaturesSummarized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_summarized_total",
			Help:      help("Total features folded into digests."),
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      help("Geocoding API requests by method and outcome."),
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      help("Geocoding cache lookups by method and result."),
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      help("Mapbox API request duration in seconds."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      help("1 when geocoding enrichment is enabled, 0 otherwise."),
		}),
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.LayersProcessed,
		m.DigestBytes,
		m.ReductionPercent,
		m.SummarizeDuration,
		m.FeaturesSummarized,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}
