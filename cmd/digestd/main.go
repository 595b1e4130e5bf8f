package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/geo-digest-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/geo-digest-service/internal/adapter/kafka"
	"github.com/couchcryptid/geo-digest-service/internal/adapter/mapbox"
	"github.com/couchcryptid/geo-digest-service/internal/config"
	"github.com/couchcryptid/geo-digest-service/internal/domain"
	"github.com/couchcryptid/geo-digest-service/internal/observability"
	"github.com/couchcryptid/geo-digest-service/internal/pipeline"
	"github.com/couchcryptid/geo-digest-service/internal/summarize"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	summarizer := summarize.New(summarize.FilterFor(cfg.RequireField), logger, metrics, summarize.WithWorkers(cfg.SummarizeWorkers))
	transformer := pipeline.NewTransformer(summarizer, geocoder, cfg.MaxDigestBytes, logger)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, transformer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
