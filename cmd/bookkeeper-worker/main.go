package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bookkeeper/internal/config"
	"bookkeeper/internal/events"
	"bookkeeper/internal/log"
	"bookkeeper/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	// The broker is optional for the API server but this binary exists to
	// drain its queue, so here the URL is required.
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("failed to connect to broker", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditor := worker.NewAuditor(logger)

	logger.Info("starting worker", log.FieldOperation, log.OpStartup, "queue", cfg.AMQPQueue)
	if err := client.Consume(ctx, auditor.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consume failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("worker stopped gracefully", log.FieldOperation, log.OpShutdown)
}
