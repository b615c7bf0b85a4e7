package callback

import (
	"context"
	"errors"
	"testing"

	"case-callback/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedHandler returns the scripted error for each call in turn and
// nil once the script runs out.
type scriptedHandler struct {
	script []error
	calls  int
}

func (h *scriptedHandler) CanHandle(phase EventPhase, cb *Callback, priority Priority) bool {
	return priority == Latest
}

func (h *scriptedHandler) Handle(ctx context.Context, phase EventPhase, cb *Callback, priority Priority) error {
	h.calls++
	if h.calls <= len(h.script) {
		return h.script[h.calls-1]
	}
	return nil
}

// countingDecoder wraps JSONDecoder and counts calls.
type countingDecoder struct {
	calls int
	err   error
}

func (d *countingDecoder) Decode(raw []byte) (*Callback, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return JSONDecoder{}.Decode(raw)
}

var validEvent = []byte(`{"event_id":"appealReceived","case_details":{"id":"1234","case_type_id":"Benefit","case_data":{}}}`)

func newTestConsumer(t *testing.T, decoder Decoder, handlers []Handler, maxAttempts int) (*RetryingConsumer, *observability.InMemoryMetrics) {
	t.Helper()
	metrics := observability.NewInMemoryMetrics()
	c, err := NewRetryingConsumer(decoder, NewDispatcher(handlers), ConsumerConfig{
		MaxAttempts: maxAttempts,
		Logger:      observability.NewDiscardLogger(),
		Metrics:     metrics,
	})
	require.NoError(t, err)
	return c, metrics
}

func TestRetryingConsumer_Success(t *testing.T) {
	h := &scriptedHandler{}
	c, metrics := newTestConsumer(t, &countingDecoder{}, []Handler{h}, 3)

	res := c.OnMessage(context.Background(), validEvent)

	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, h.calls)
	assert.Equal(t, int64(1), metrics.Snapshot().Processed)
}

func TestRetryingConsumer_UnrecoverableIsNotRetried(t *testing.T) {
	h := &scriptedHandler{script: []error{
		Unrecoverable(ReasonInvalidAddress, errors.New("postcode ZZ99 is not a UK postcode")),
	}}
	dec := &countingDecoder{}
	c, metrics := newTestConsumer(t, dec, []Handler{h}, 3)

	res := c.OnMessage(context.Background(), validEvent)

	assert.Equal(t, OutcomeDropped, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, dec.calls)
	assert.Equal(t, 1, h.calls)
	assert.Equal(t, ReasonInvalidAddress, ReasonOf(res.Err))
	assert.Equal(t, int64(1), metrics.Snapshot().Dropped)
	assert.Zero(t, metrics.Snapshot().Retried)
}

func TestRetryingConsumer_UnknownReasonIsRetried(t *testing.T) {
	h := &scriptedHandler{script: []error{
		Unrecoverable("", errors.New("rejected")),
		Unrecoverable("quota_exceeded", errors.New("rejected")),
	}}
	c, metrics := newTestConsumer(t, &countingDecoder{}, []Handler{h}, 3)

	res := c.OnMessage(context.Background(), validEvent)

	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, h.calls)
	snap := metrics.Snapshot()
	assert.Equal(t, int64(0), snap.Dropped)
	assert.Equal(t, int64(2), snap.Retried)
}

func TestRetryingConsumer_TransientExhaustsAttempts(t *testing.T) {
	transient := errors.New("document service unavailable")
	h := &scriptedHandler{script: []error{transient, transient, transient, transient}}
	dec := &countingDecoder{}
	c, metrics := newTestConsumer(t, dec, []Handler{h}, 3)

	res := c.OnMessage(context.Background(), validEvent)

	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, dec.calls)
	assert.Equal(t, 3, h.calls)
	assert.ErrorIs(t, res.Err, transient)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(2), snap.Retried)
	assert.Equal(t, int64(1), snap.Exhausted)
	assert.Zero(t, snap.Processed)
}

func TestRetryingConsumer_TransientThenSuccessRerunsWholeDispatch(t *testing.T) {
	rec := &recorder{}
	early := newFakeHandler("early", rec, Earliest)
	flaky := &scriptedHandler{script: []error{errors.New("connection reset")}}
	dec := &countingDecoder{}
	c, _ := newTestConsumer(t, dec, []Handler{early, flaky}, 3)

	res := c.OnMessage(context.Background(), validEvent)

	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 2, dec.calls)
	assert.Equal(t, 2, flaky.calls)
	// the EARLIEST handler that succeeded on attempt 1 runs again
	assert.Equal(t, []string{"early.handle(EARLIEST)", "early.handle(EARLIEST)"}, handleCalls(rec))
}

func TestRetryingConsumer_DecodeErrorsAreRetried(t *testing.T) {
	dec := &countingDecoder{}
	h := &scriptedHandler{}
	c, _ := newTestConsumer(t, dec, []Handler{h}, 2)

	res := c.OnMessage(context.Background(), []byte("{not json"))

	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 2, dec.calls)
	assert.Zero(t, h.calls)
	assert.ErrorIs(t, res.Err, ErrMalformed)
}

func TestRetryingConsumer_SingleAttempt(t *testing.T) {
	h := &scriptedHandler{script: []error{errors.New("boom")}}
	c, _ := newTestConsumer(t, &countingDecoder{}, []Handler{h}, 1)

	res := c.OnMessage(context.Background(), validEvent)

	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
}

type panickingHandler struct{ calls int }

func (h *panickingHandler) CanHandle(EventPhase, *Callback, Priority) bool { return true }

func (h *panickingHandler) Handle(ctx context.Context, phase EventPhase, cb *Callback, priority Priority) error {
	h.calls++
	if h.calls == 1 {
		panic("nil map")
	}
	return nil
}

func TestRetryingConsumer_PanicIsTransient(t *testing.T) {
	h := &panickingHandler{}
	c, _ := newTestConsumer(t, &countingDecoder{}, []Handler{h}, 3)

	res := c.OnMessage(context.Background(), validEvent)

	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Equal(t, 2, res.Attempts)
}

func TestNewRetryingConsumer_Validation(t *testing.T) {
	d := NewDispatcher(nil)

	_, err := NewRetryingConsumer(nil, d, ConsumerConfig{})
	assert.Error(t, err)

	_, err = NewRetryingConsumer(JSONDecoder{}, d, ConsumerConfig{MaxAttempts: -1})
	assert.Error(t, err)

	_, err = NewRetryingConsumer(JSONDecoder{}, d, ConsumerConfig{})
	assert.ErrorContains(t, err, "max attempts must be positive, got 0")

	c, err := NewRetryingConsumer(JSONDecoder{}, d, ConsumerConfig{MaxAttempts: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, c.maxAttempts)
}
