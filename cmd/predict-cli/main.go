// Command predict-cli fills the prediction form from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	kafkaadapter "github.com/couchcryptid/blood-demand-predictor/internal/adapter/kafka"
	"github.com/couchcryptid/blood-demand-predictor/internal/adapter/predict"
	"github.com/couchcryptid/blood-demand-predictor/internal/config"
	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/couchcryptid/blood-demand-predictor/internal/events"
	"github.com/couchcryptid/blood-demand-predictor/internal/form"
	"github.com/couchcryptid/blood-demand-predictor/internal/observability"
	"github.com/couchcryptid/blood-demand-predictor/internal/terminal"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewConsoleLogger(cfg)
	metrics := observability.NewMetrics()
	fields := domain.DefaultFields()

	client := predict.NewClient(cfg.PredictURL, metrics, logger)

	var (
		publisher form.EventPublisher
		wg        sync.WaitGroup
	)
	if cfg.EventsEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		dispatcher := events.New(writer, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval, nil)
		publisher = dispatcher

		eventsCtx, stopEvents := context.WithCancel(context.Background())
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dispatcher.Run(eventsCtx); err != nil {
				logger.Error("event dispatcher error", "error", err)
			}
		}()
		// Runs after the session ends: flush what was published, then close.
		defer func() {
			stopEvents()
			wg.Wait()
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
	}

	submitter := form.NewSubmitter(fields, client, publisher, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	session := terminal.NewSession(fields, terminal.NewSurveyPrompter(), submitter, os.Stdout)
	if _, err := session.Run(ctx); err != nil {
		if errors.Is(err, terminal.ErrInterrupted) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
