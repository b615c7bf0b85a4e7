package handlers

import (
	"context"
	"errors"
	"fmt"

	"case-callback/internal/callback"
	"case-callback/internal/store"
)

// CaseUpdateHandler writes the categorised case data back to the case
// store once every EARLIEST handler has run.
type CaseUpdateHandler struct {
	store store.CaseStore
}

func NewCaseUpdateHandler(s store.CaseStore) *CaseUpdateHandler {
	return &CaseUpdateHandler{store: s}
}

func (h *CaseUpdateHandler) CanHandle(phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) bool {
	return priority == callback.Latest &&
		phase == callback.Submitted &&
		cb.CaseData.String(fieldCaseCategory) != ""
}

func (h *CaseUpdateHandler) Handle(ctx context.Context, phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) error {
	err := h.store.UpdateCase(ctx, store.CaseUpdate{
		CaseID:    cb.CaseID(),
		EventID:   cb.EventID(),
		State:     cb.State(),
		Data:      cb.CaseData,
		EventTime: cb.Timestamp(),
	})
	if errors.Is(err, store.ErrCaseNotFound) {
		return callback.Unrecoverable(callback.ReasonStorageReported, fmt.Errorf("update case %s: %w", cb.CaseID(), err))
	}
	if err != nil {
		return fmt.Errorf("update case %s: %w", cb.CaseID(), err)
	}
	return nil
}
