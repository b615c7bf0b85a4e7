package callback

import (
	"context"
	"errors"
	"fmt"
)

var errNilCallback = errors.New("nil callback")

// Dispatcher runs a fixed, ordered list of handlers against a callback.
// It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	handlers []Handler
}

// NewDispatcher copies handlers, so later changes to the caller's slice
// do not affect dispatch order.
func NewDispatcher(handlers []Handler) *Dispatcher {
	registry := make([]Handler, len(handlers))
	copy(registry, handlers)
	return &Dispatcher{handlers: registry}
}

// Len returns the number of registered handlers.
func (d *Dispatcher) Len() int {
	return len(d.handlers)
}

// Handle walks the Earliest tier then the Latest tier. Within a tier each
// handler's CanHandle is evaluated immediately before its Handle, so a
// mutation made by one handler is visible to the next handler's check.
// The first Handle error aborts the remainder of both tiers.
func (d *Dispatcher) Handle(ctx context.Context, phase EventPhase, cb *Callback) error {
	if cb == nil {
		return errNilCallback
	}

	for _, priority := range priorities {
		for i, h := range d.handlers {
			if !h.CanHandle(phase, cb, priority) {
				continue
			}
			if err := h.Handle(ctx, phase, cb, priority); err != nil {
				return fmt.Errorf("handler %d (%T) at %s: %w", i, h, priority, err)
			}
		}
	}
	return nil
}
