package callback

import "context"

// Handler is a unit of business logic gated by a capability check.
//
// CanHandle must not have side effects. It may read cb.CaseData, which
// earlier handlers in the same dispatch may have changed. Handle is only
// called right after CanHandle returned true for the same arguments.
//
// Handlers are re-run in full when the consumer retries a message, so
// Handle must be idempotent.
type Handler interface {
	CanHandle(phase EventPhase, cb *Callback, priority Priority) bool
	Handle(ctx context.Context, phase EventPhase, cb *Callback, priority Priority) error
}
