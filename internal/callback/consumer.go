package callback

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"case-callback/internal/observability"

	"github.com/sirupsen/logrus"
)

// CallbackDispatcher runs handlers for a decoded callback.
type CallbackDispatcher interface {
	Handle(ctx context.Context, phase EventPhase, cb *Callback) error
}

// Outcome is the terminal state of one OnMessage call.
type Outcome int

const (
	OutcomeProcessed Outcome = iota
	OutcomeDropped
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeDropped:
		return "dropped"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result describes how a message ended up.
type Result struct {
	Outcome  Outcome
	Attempts int
	Err      error
}

type ConsumerConfig struct {
	MaxAttempts int
	Logger      *logrus.Logger
	Metrics     observability.MetricsCollector
}

// RetryingConsumer decodes and dispatches raw messages, retrying
// transient failures up to MaxAttempts total attempts.
type RetryingConsumer struct {
	decoder     Decoder
	dispatcher  CallbackDispatcher
	maxAttempts int
	logger      *logrus.Logger
	metrics     observability.MetricsCollector
}

func NewRetryingConsumer(decoder Decoder, dispatcher CallbackDispatcher, cfg ConsumerConfig) (*RetryingConsumer, error) {
	if decoder == nil || dispatcher == nil {
		return nil, errors.New("decoder and dispatcher are required")
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be positive, got %d", cfg.MaxAttempts)
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.GetLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewInMemoryMetrics()
	}

	return &RetryingConsumer{
		decoder:     decoder,
		dispatcher:  dispatcher,
		maxAttempts: cfg.MaxAttempts,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}, nil
}

// OnMessage processes one raw message to completion. Each attempt
// re-runs decode and the full dispatch; there is no delay between
// attempts. The returned Result is informational, the message is either
// processed or dropped by the time OnMessage returns.
func (c *RetryingConsumer) OnMessage(ctx context.Context, raw []byte) Result {
	for attempt := 1; ; attempt++ {
		cb, err := c.attempt(ctx, raw)
		if err == nil {
			c.metrics.IncProcessed()
			c.logger.WithFields(callbackFields(cb, attempt)).Debug("Callback processed")
			return Result{Outcome: OutcomeProcessed, Attempts: attempt}
		}

		entry := c.logger.WithFields(callbackFields(cb, attempt)).WithError(err)

		if KindOf(err) == KindUnrecoverable {
			c.metrics.IncDropped()
			entry.WithField("reason", ReasonOf(err)).Error("Unrecoverable callback failure, dropping message")
			return Result{Outcome: OutcomeDropped, Attempts: attempt, Err: err}
		}

		if attempt >= c.maxAttempts {
			c.metrics.IncExhausted()
			entry.WithField("max_attempts", c.maxAttempts).Error("Retries exhausted, dropping message")
			return Result{Outcome: OutcomeExhausted, Attempts: attempt, Err: err}
		}

		c.metrics.IncRetried()
		entry.Warn("Callback attempt failed, retrying")
	}
}

func (c *RetryingConsumer) attempt(ctx context.Context, raw []byte) (cb *Callback, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(logrus.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Panic while handling callback")
			err = Transient(fmt.Errorf("handler panicked: %v", r))
		}
	}()

	cb, err = c.decoder.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := c.dispatcher.Handle(ctx, Submitted, cb); err != nil {
		return cb, fmt.Errorf("dispatch %s: %w", cb.EventID(), err)
	}
	return cb, nil
}

func callbackFields(cb *Callback, attempt int) logrus.Fields {
	fields := logrus.Fields{"attempt": attempt}
	if cb != nil {
		fields["case_id"] = cb.CaseID()
		fields["event_id"] = cb.EventID()
	}
	return fields
}
