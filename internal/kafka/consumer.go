package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"case-callback/internal/observability"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Message is the transport-neutral view of a consumed record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// MessageHandler processes one consumed message to completion. It has no
// error return: by the time it returns the message is either processed
// or deliberately dropped, and the offset is committed either way.
type MessageHandler func(ctx context.Context, msg *Message)

// ConsumerClient defines the interface for Kafka consumer operations
type ConsumerClient interface {
	Start(ctx context.Context, handler MessageHandler) error
	Close() error
}

// messageReader is the subset of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer fans fetched messages out to a fixed pool of workers. Each
// message is owned by exactly one worker from fetch to commit.
type Consumer struct {
	reader          messageReader
	logger          *logrus.Logger
	metrics         observability.MetricsCollector
	workers         int
	fetchRetryDelay time.Duration
	wg              sync.WaitGroup
}

type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	GroupID       string
	Workers       int
	FetchMinBytes int
	FetchMaxBytes int

	// FetchRetryDelay is the pause after a failed fetch. Defaults to one second.
	FetchRetryDelay time.Duration
	Metrics         observability.MetricsCollector
	Logger          *logrus.Logger
}

func NewConsumer(cfg ConsumerConfig) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       cfg.FetchMinBytes,
		MaxBytes:       cfg.FetchMaxBytes,
		CommitInterval: 0, // Manual commits
		StartOffset:    kafka.LastOffset,
	})
	return newConsumer(reader, cfg)
}

func newConsumer(reader messageReader, cfg ConsumerConfig) *Consumer {
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewInMemoryMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.GetLogger()
	}
	if cfg.Workers == 0 {
		cfg.Workers = 5
	}
	if cfg.FetchRetryDelay <= 0 {
		cfg.FetchRetryDelay = time.Second
	}

	return &Consumer{
		reader:          reader,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		workers:         cfg.Workers,
		fetchRetryDelay: cfg.FetchRetryDelay,
	}
}

// Start begins consuming messages and blocks until ctx is cancelled and
// every worker has drained.
func (c *Consumer) Start(ctx context.Context, handler MessageHandler) error {
	c.logger.WithField("workers", c.workers).Info("Starting consumer")

	msgChan := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i, msgChan, handler)
	}

	c.wg.Add(1)
	go c.fetcher(ctx, msgChan)

	c.wg.Wait()
	return nil
}

// fetcher reads messages from Kafka and sends to worker pool
func (c *Consumer) fetcher(ctx context.Context, msgChan chan<- kafka.Message) {
	defer c.wg.Done()
	defer close(msgChan)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("Fetcher stopping due to context cancellation")
				return
			}
			c.logger.WithError(err).Error("Failed to fetch message")
			select {
			case <-time.After(c.fetchRetryDelay):
				continue
			case <-ctx.Done():
				c.logger.Info("Fetcher stopping due to context cancellation")
				return
			}
		}

		c.metrics.IncReceived()

		select {
		case msgChan <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// worker processes messages until the channel is closed. A message that
// was already handed to a worker is finished even if ctx is cancelled.
func (c *Consumer) worker(ctx context.Context, id int, msgChan <-chan kafka.Message, handler MessageHandler) {
	defer c.wg.Done()
	c.logger.WithField("worker_id", id).Debug("Worker started")

	for msg := range msgChan {
		c.processMessage(ctx, msg, handler, id)
	}
	c.logger.WithField("worker_id", id).Debug("Worker stopping - channel closed")
}

func (c *Consumer) processMessage(ctx context.Context, kafkaMsg kafka.Message, handler MessageHandler, workerID int) {
	msg := toInternalMessage(kafkaMsg)

	c.logger.WithFields(logrus.Fields{
		"topic":     kafkaMsg.Topic,
		"partition": kafkaMsg.Partition,
		"offset":    kafkaMsg.Offset,
		"worker_id": workerID,
	}).Debug("Handling message")

	handler(ctx, msg)
	c.commitMessage(kafkaMsg)
}

// commitMessage commits the offset with a fresh context so a shutdown
// does not lose the commit for a message that was fully handled.
func (c *Consumer) commitMessage(msg kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.WithError(err).WithField("offset", msg.Offset).Error("Failed to commit message")
	}
}

func toInternalMessage(kafkaMsg kafka.Message) *Message {
	headers := make(map[string]string, len(kafkaMsg.Headers))
	for _, h := range kafkaMsg.Headers {
		headers[h.Key] = string(h.Value)
	}

	return &Message{
		Topic:     kafkaMsg.Topic,
		Partition: kafkaMsg.Partition,
		Offset:    kafkaMsg.Offset,
		Key:       string(kafkaMsg.Key),
		Value:     kafkaMsg.Value,
		Headers:   headers,
		Timestamp: kafkaMsg.Time,
	}
}

// Close gracefully shuts down the consumer
func (c *Consumer) Close() error {
	c.logger.Info("Closing consumer")
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("failed to close consumer: %w", err)
	}
	return nil
}
