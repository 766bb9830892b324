// Command briefsvc consumes flight leg requests from Kafka, evaluates each
// into a weather brief with a baseline delay risk score, and publishes the
// briefs. It also serves on-demand briefs and health endpoints over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/flight-brief/internal/adapter/awc"
	httpadapter "github.com/couchcryptid/flight-brief/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/flight-brief/internal/adapter/kafka"
	"github.com/couchcryptid/flight-brief/internal/config"
	"github.com/couchcryptid/flight-brief/internal/domain"
	"github.com/couchcryptid/flight-brief/internal/observability"
	"github.com/couchcryptid/flight-brief/internal/pipeline"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Report fetching is feature-flagged via REPORT_FETCH_ENABLED.
	var source domain.ReportSource
	if cfg.ReportFetchEnabled {
		client := awc.NewClient(cfg.ReportBaseURL, cfg.ReportTimeout, metrics, logger)
		source = awc.NewCachedSource(client, cfg.ReportCacheSize, cfg.ReportCacheTTL, metrics)
		metrics.ReportFetchOn.Set(1)
		logger.Info("report fetching enabled",
			"base_url", cfg.ReportBaseURL,
			"cache_size", cfg.ReportCacheSize,
			"cache_ttl", cfg.ReportCacheTTL,
			"derive_distance", cfg.DeriveStageDistance,
		)
	} else {
		logger.Info("report fetching disabled")
	}

	scorer := domain.NewScorer(cfg.Hubs)
	logger.Info("scorer configured", "hubs", cfg.Hubs.Len())

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(scorer, source, cfg.DeriveStageDistance, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, transformer, logger,
		httpadapter.WithBriefHook(func(b domain.Brief) { pipeline.RecordBrief(metrics, b) }),
	)

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
