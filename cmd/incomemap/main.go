package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/county-income-map/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/county-income-map/internal/adapter/kafka"
	"github.com/couchcryptid/county-income-map/internal/adapter/source"
	"github.com/couchcryptid/county-income-map/internal/config"
	"github.com/couchcryptid/county-income-map/internal/observability"
	"github.com/couchcryptid/county-income-map/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := source.NewClient(cfg.FetchTimeout, cfg.FetchMaxRetries, logger)
	loader := source.NewLoader(client, source.Locations{
		Counties: cfg.IncomeSourceURL,
		States:   cfg.StatesSourceURL,
		Abbrevs:  cfg.AbbrevSourceURL,
	}, logger, metrics)

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.PublishEnabled.Set(1)
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	p := pipeline.New(loader, publisher, logger, metrics, pipeline.Options{
		CacheTTL:  cfg.ViewCacheTTL,
		CacheSize: cfg.ViewCacheSize,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, cfg.CORSAllowedOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Compute the first view in the background so /readyz flips without
	// waiting for a request.
	go p.Warm(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
