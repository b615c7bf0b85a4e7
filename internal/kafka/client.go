package kafka

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"case-callback/internal/observability"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// dialFunc opens a connection to one broker.
type dialFunc func(ctx context.Context, network, address string) (*kafka.Conn, error)

// Client checks broker reachability for the consumer process.
type Client struct {
	brokers     []string
	dial        dialFunc
	logger      *logrus.Logger
	maxRetries  int
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

func NewClient(brokers []string, maxRetries int) *Client {
	return &Client{
		brokers:     brokers,
		dial:        kafka.DialContext,
		logger:      observability.GetLogger(),
		maxRetries:  maxRetries,
		baseBackoff: 1 * time.Second,
		maxBackoff:  30 * time.Second,
	}
}

// HealthCheck succeeds when any broker answers a metadata request.
func (c *Client) HealthCheck(ctx context.Context) error {
	if len(c.brokers) == 0 {
		return errors.New("no brokers configured")
	}

	var errs []error
	for _, broker := range c.brokers {
		if err := c.checkBroker(ctx, broker); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", broker, err))
			continue
		}
		return nil
	}
	return fmt.Errorf("no healthy broker: %w", errors.Join(errs...))
}

func (c *Client) checkBroker(ctx context.Context, broker string) error {
	conn, err := c.dial(ctx, "tcp", broker)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	return nil
}

// WaitReady blocks until HealthCheck succeeds, retrying with exponential
// backoff up to maxRetries times.
func (c *Client) WaitReady(ctx context.Context) error {
	err := c.HealthCheck(ctx)
	for attempt := 0; err != nil && attempt < c.maxRetries; attempt++ {
		backoff := time.Duration(math.Min(
			float64(c.baseBackoff)*math.Pow(2, float64(attempt)),
			float64(c.maxBackoff),
		))

		c.logger.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"backoff": backoff,
		}).WithError(err).Warn("Kafka not ready, waiting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		err = c.HealthCheck(ctx)
	}
	if err != nil {
		return fmt.Errorf("kafka not ready after %d attempts: %w", c.maxRetries+1, err)
	}
	return nil
}

// HealthCheckLoop logs broker health every interval until ctx is done.
func (c *Client) HealthCheckLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Health check loop stopped")
			return
		case <-ticker.C:
			if err := c.HealthCheck(ctx); err != nil {
				c.logger.WithError(err).Warn("Health check failed")
			}
		}
	}
}

// GetBrokers returns the list of brokers
func (c *Client) GetBrokers() []string {
	return c.brokers
}
