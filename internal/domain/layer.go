package domain

// LayerResult is one map layer's already-queried feature array.
type LayerResult struct {
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name,omitempty"`
	Features []Feature `json:"features"`
}

// LayerConfig is the per-layer configuration supplied by the map layer.
type LayerConfig struct {
	Name          string `json:"name,omitempty" yaml:"name"`
	RendererField string `json:"renderer_field,omitempty" yaml:"renderer_field"`
}

// Options selects the analysis type and which optional sections to emit.
type Options struct {
	AnalysisType      AnalysisType `json:"analysis_type" mapstructure:"analysis_type"`
	IncludeClustering bool         `json:"include_clustering" mapstructure:"include_clustering"`
	IncludeOutliers   bool         `json:"include_outliers" mapstructure:"include_outliers"`
	IncludeStatistics bool         `json:"include_statistics" mapstructure:"include_statistics"`
	TopPerformers     int          `json:"top_performers" mapstructure:"top_performers"`
	BottomPerformers  int          `json:"bottom_performers" mapstructure:"bottom_performers"`
	// MaxBytes bounds the digest size; 0 disables the ceiling.
	MaxBytes int `json:"max_bytes" mapstructure:"max_bytes"`
}

// DefaultOptions returns the options used when a caller supplies none.
func DefaultOptions() Options {
	return Options{
		AnalysisType:      AnalysisStrategic,
		IncludeStatistics: true,
		TopPerformers:     10,
		BottomPerformers:  5,
	}
}

// Normalized fills unset counts with their defaults.
func (o Options) Normalized() Options {
	d := DefaultOptions()
	if o.AnalysisType == "" {
		o.AnalysisType = d.AnalysisType
	}
	if o.TopPerformers <= 0 {
		o.TopPerformers = d.TopPerformers
	}
	if o.BottomPerformers <= 0 {
		o.BottomPerformers = d.BottomPerformers
	}
	if o.MaxBytes < 0 {
		o.MaxBytes = 0
	}
	return o
}

// SummarizeRequest is the inbound payload on both the HTTP and Kafka surfaces.
type SummarizeRequest struct {
	ID           string                 `json:"id,omitempty"`
	Layers       []LayerResult          `json:"layers"`
	LayerConfigs map[string]LayerConfig `json:"layer_configs,omitempty"`
	Options      *Options               `json:"options,omitempty"`
}

// EffectiveOptions returns the request options or the defaults.
func (r SummarizeRequest) EffectiveOptions() Options {
	if r.Options == nil {
		return DefaultOptions()
	}
	return r.Options.Normalized()
}
