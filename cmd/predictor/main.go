package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/couchcryptid/blood-demand-predictor/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/blood-demand-predictor/internal/adapter/kafka"
	"github.com/couchcryptid/blood-demand-predictor/internal/adapter/predict"
	"github.com/couchcryptid/blood-demand-predictor/internal/config"
	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/couchcryptid/blood-demand-predictor/internal/events"
	"github.com/couchcryptid/blood-demand-predictor/internal/form"
	"github.com/couchcryptid/blood-demand-predictor/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	fields := domain.DefaultFields()

	client := predict.NewClient(cfg.PredictURL, metrics, logger)
	logger.Info("prediction service configured", "endpoint", client.Endpoint())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Prediction events are optional (EVENTS_ENABLED / KAFKA_BROKERS). The
	// dispatcher outlives the signal so submissions still in flight during
	// shutdown can publish; it is stopped after the HTTP server.
	eventsCtx, stopEvents := context.WithCancel(context.Background())
	defer stopEvents()
	var (
		publisher form.EventPublisher
		writer    *kafkaadapter.Writer
		wg        sync.WaitGroup
	)
	if cfg.EventsEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		dispatcher := events.New(writer, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval, nil)
		publisher = dispatcher
		metrics.EventsEnabled.Set(1)
		logger.Info("prediction events enabled",
			"topic", cfg.KafkaPredictionTopic,
			"batch_size", cfg.BatchSize,
			"flush_interval", cfg.BatchFlushInterval,
		)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dispatcher.Run(eventsCtx); err != nil {
				logger.Error("event dispatcher error", "error", err)
			}
		}()
	} else {
		logger.Info("prediction events disabled")
	}

	submitter := form.NewSubmitter(fields, client, publisher, logger, metrics)
	forms := httpadapter.NewFormHandler(fields, submitter, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, client, forms, logger)

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
	stopEvents()
	wg.Wait()
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
