package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"tight/internal/amqp"
	"tight/internal/cli"
	"tight/internal/date"
	"tight/internal/services"
	"tight/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting tight-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without messaging", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	} else {
		logger.Info("AMQP disabled, occurrences will only be recorded locally")
	}

	var publisher services.OccurrencePublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	processor := services.NewRecurringProcessor(repo, publisher)
	materializer := worker.NewMaterializeWorker(repo)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, ctx := errgroup.WithContext(ctx)

	// Cron-driven materialization of due occurrences.
	g.Go(func() error {
		schedule, err := cron.ParseStandard(cfg.WorkerCron)
		if err != nil {
			return err
		}

		logger.Info("Recurring processor scheduled", "cron", cfg.WorkerCron)

		// Catch up once on startup.
		runProcessor(ctx, logger, processor)

		for {
			next := schedule.Next(time.Now())
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Until(next)):
				runProcessor(ctx, logger, processor)
			}
		}
	})

	// AMQP consumer persisting occurrence messages.
	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeOccurrences(ctx, func(msg *amqp.OccurrenceMessage) error {
				return materializer.HandleOccurrenceMessage(ctx, msg)
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}

func runProcessor(ctx context.Context, logger *slog.Logger, processor *services.RecurringProcessor) {
	count, err := processor.ProcessDue(ctx, date.Today())
	if err != nil {
		logger.Error("Recurring processing failed", "error", err)
		return
	}
	logger.Info("Recurring processing complete", "occurrences_recorded", count)
}
