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

	httpadapter "github.com/couchcryptid/event-discovery-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/event-discovery-service/internal/adapter/kafka"
	"github.com/couchcryptid/event-discovery-service/internal/adapter/nominatim"
	"github.com/couchcryptid/event-discovery-service/internal/adapter/ticketmaster"
	"github.com/couchcryptid/event-discovery-service/internal/config"
	"github.com/couchcryptid/event-discovery-service/internal/observability"
	"github.com/couchcryptid/event-discovery-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	source := ticketmaster.NewClient(cfg, metrics, logger)
	geocoder := nominatim.NewClient(cfg, metrics, logger)

	opts := []pipeline.Option{
		pipeline.WithGeocoder(geocoder),
		pipeline.WithTimeout(cfg.RequestTimeout),
	}

	// Result publication is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		opts = append(opts, pipeline.WithPublisher(publisher))
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(source, logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, source, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
