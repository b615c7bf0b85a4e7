package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"case-callback/internal/callback"
	"case-callback/internal/config"
	"case-callback/internal/handlers"
	"case-callback/internal/kafka"
	"case-callback/internal/observability"
	"case-callback/internal/store/postgres"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	observability.InitLogger(cfg.Logging.Level)
	logger := observability.GetLogger()

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := kafka.NewClient(cfg.Kafka.Brokers, 5)
	if err := client.WaitReady(ctx); err != nil {
		logger.WithError(err).Fatal("Kafka unavailable")
	}
	go client.HealthCheckLoop(ctx, 30*time.Second)

	caseStore := postgres.Connect(postgres.Options{
		Addr:     cfg.Database.Addr(),
		User:     cfg.Database.User,
		Password: cfg.Database.Pass,
		Database: cfg.Database.Name,
	})
	defer caseStore.Close()
	if err := caseStore.CreateSchema(); err != nil {
		logger.WithError(err).Fatal("Failed to create case store schema")
	}

	metrics := observability.NewInMemoryMetrics()

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:    cfg.Kafka.Brokers,
		Acks:       cfg.Producer.Acks,
		Retries:    cfg.Producer.Retries,
		Idempotent: cfg.Producer.Idempotent,
		Metrics:    metrics,
		Logger:     logger,
	})
	defer producer.Close()

	// The registry is assembled once here and never changes afterwards.
	dispatcher := callback.NewDispatcher(handlers.Registry(handlers.Dependencies{
		Store:             caseStore,
		Publisher:         producer,
		DocumentTopic:     cfg.Producer.DocumentTopic,
		NotificationTopic: cfg.Producer.NotificationTopic,
	}))

	retrying, err := callback.NewRetryingConsumer(callback.NewJSONDecoder(), dispatcher, callback.ConsumerConfig{
		MaxAttempts: cfg.Consumer.MaxAttempts,
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to build callback consumer")
	}

	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Consumer.Topic,
		GroupID:       cfg.Consumer.GroupID,
		Workers:       cfg.Consumer.Workers,
		FetchMinBytes: cfg.Consumer.FetchMinBytes,
		FetchMaxBytes: cfg.Consumer.FetchMaxBytes,
		Metrics:       metrics,
		Logger:        logger,
	})
	defer consumer.Close()

	logger.WithFields(logrus.Fields{
		"topic":        cfg.Consumer.Topic,
		"group_id":     cfg.Consumer.GroupID,
		"handlers":     dispatcher.Len(),
		"max_attempts": cfg.Consumer.MaxAttempts,
	}).Info("Starting callback consumer")

	handler := func(ctx context.Context, msg *kafka.Message) {
		// Dispatch is never cancelled: a shutdown lets the message finish.
		retrying.OnMessage(context.WithoutCancel(ctx), msg.Value)
	}
	if err := consumer.Start(ctx, handler); err != nil {
		logger.WithError(err).Error("Consumer error")
	}

	snap := metrics.Snapshot()
	logger.WithFields(logrus.Fields{
		"received":  snap.Received,
		"processed": snap.Processed,
		"retried":   snap.Retried,
		"dropped":   snap.Dropped,
		"exhausted": snap.Exhausted,
		"published": snap.Published,
	}).Info("Consumer stopped")
}
