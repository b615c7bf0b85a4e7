package handlers

import (
	"context"
	"fmt"
	"strings"

	"case-callback/internal/callback"
)

// RequiredFieldsHandler rejects callbacks whose case data lacks a field
// that later handlers rely on. A missing field never appears on retry,
// so the failure is unrecoverable.
type RequiredFieldsHandler struct {
	paths []string
}

func NewRequiredFieldsHandler(paths ...string) *RequiredFieldsHandler {
	if len(paths) == 0 {
		paths = DefaultRequiredFields
	}
	return &RequiredFieldsHandler{paths: paths}
}

func (h *RequiredFieldsHandler) CanHandle(phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) bool {
	return priority == callback.Earliest
}

func (h *RequiredFieldsHandler) Handle(ctx context.Context, phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) error {
	var missing []string
	for _, path := range h.paths {
		if strings.TrimSpace(stringAt(cb.CaseData, path)) == "" {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return callback.Unrecoverable(callback.ReasonInvalidField,
			fmt.Errorf("case %s missing required fields: %s", cb.CaseID(), strings.Join(missing, ", ")))
	}
	return nil
}
