package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/geo-digest-service/internal/config"
	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/observability"
	"github.com/couchcryptid/geo-digest-service/internal/summarize"
)

var (
	// Global flags
	cfgFile string

	// Option overrides, applied only when set on the command line.
	flagType       string
	flagOutliers   bool
	flagClustering bool
	flagNoStats    bool
	flagTop        int
	flagBottom     int
	flagMaxBytes   int
	flagWorkers    int
	flagRequire    string
	flagJSON       bool
)

var rootCmd = &cobra.Command{
	Use:   "digest <request-file>",
	Short: "Summarize geographic feature layers into a bounded text digest",
	Long: `digest reads a summarize request (JSON, or YAML with a .yaml/.yml extension; "-" reads JSON from stdin)
and prints the digest followed by size metrics on stderr.

Defaults come from ~/.geodigest/config.yaml (or --config) and GEODIGEST_* environment variables.
Options inside the request file override those defaults; flags override both.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDigest,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.geodigest/config.yaml)")

	f := rootCmd.Flags()
	f.StringVarP(&flagType, "type", "t", "", "analysis type (e.g. strategic-analysis, outlier-detection)")
	f.BoolVar(&flagOutliers, "outliers", false, "include the outlier section")
	f.BoolVar(&flagClustering, "clustering", false, "include the geographic cluster section")
	f.BoolVar(&flagNoStats, "no-stats", false, "omit the statistical foundation")
	f.IntVar(&flagTop, "top", 0, "number of top performers to list")
	f.IntVar(&flagBottom, "bottom", 0, "number of bottom performers to list")
	f.IntVar(&flagMaxBytes, "max-bytes", 0, "digest size ceiling in bytes (0 = unlimited)")
	f.IntVar(&flagWorkers, "workers", 0, "layers summarized in parallel")
	f.StringVar(&flagRequire, "require-field", "", "drop features without a value for this property")
	f.BoolVar(&flagJSON, "json", false, "print the full response as JSON instead of the digest text")

	rootCmd.AddCommand(validateCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	cli, err := config.LoadCLI(cfgFile)
	if err != nil {
		return err
	}
	req, err := loadRequest(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	opts := resolveOptions(cmd, cli.Options, req.Options)
	workers := cli.Workers
	if cmd.Flags().Changed("workers") {
		workers = flagWorkers
	}

	requireField := cli.RequireField
	if cmd.Flags().Changed("require-field") {
		requireField = flagRequire
	}

	logger := observability.NewLoggerTo(cmd.ErrOrStderr(), cli.LogLevel, cli.LogFormat)
	s := summarize.New(summarize.FilterFor(requireField), logger, observability.NewMetricsForTesting(), summarize.WithWorkers(workers))
	res := s.Summarize(req.Layers, req.LayerConfigs, opts)

	out := cmd.OutOrStdout()
	if flagJSON {
		return writeResponse(out, req, opts, res)
	}
	fmt.Fprint(out, res.Digest)
	if res.Digest != "" {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "layers=%d features=%d bytes=%d reduction=%.1f%% elapsed=%s\n",
		res.LayerCount, res.FeatureCount, res.ByteSize, res.EstimatedReductionPct, res.Elapsed)
	return nil
}

// resolveOptions layers CLI defaults, request options and explicit flags.
func resolveOptions(cmd *cobra.Command, defaults domain.Options, fromRequest *domain.Options) domain.Options {
	opts := defaults
	if fromRequest != nil {
		opts = *fromRequest
	}

	f := cmd.Flags()
	if f.Changed("type") {
		opts.AnalysisType = domain.AnalysisType(flagType)
	}
	if f.Changed("outliers") {
		opts.IncludeOutliers = flagOutliers
	}
	if f.Changed("clustering") {
		opts.IncludeClustering = flagClustering
	}
	if f.Changed("no-stats") {
		opts.IncludeStatistics = !flagNoStats
	}
	if f.Changed("top") {
		opts.TopPerformers = flagTop
	}
	if f.Changed("bottom") {
		opts.BottomPerformers = flagBottom
	}
	if f.Changed("max-bytes") {
		opts.MaxBytes = flagMaxBytes
	}
	return opts.Normalized()
}

func writeResponse(w io.Writer, req domain.SummarizeRequest, opts domain.Options, res summarize.Result) error {
	resp := domain.DigestResponse{
		RequestID:             req.ID,
		AnalysisType:          opts.AnalysisType,
		Digest:                res.Digest,
		ByteSize:              res.ByteSize,
		EstimatedReductionPct: res.EstimatedReductionPct,
		LayerCount:            res.LayerCount,
		FeatureCount:          res.FeatureCount,
		ElapsedMillis:         res.Elapsed.Milliseconds(),
		GeneratedAt:           domain.Now().UTC(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
