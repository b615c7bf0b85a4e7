package handlers

import (
	"context"

	"case-callback/internal/callback"
)

// Notification tells downstream services that a case event completed.
type Notification struct {
	CaseID   string `json:"case_id"`
	EventID  string `json:"event_id"`
	State    string `json:"state"`
	Category string `json:"case_category"`
}

// NotificationHandler publishes a Notification for every categorised
// case. It is registered last so it only fires after the case update
// and any document request succeeded.
type NotificationHandler struct {
	publisher Publisher
	topic     string
}

func NewNotificationHandler(pub Publisher, topic string) *NotificationHandler {
	return &NotificationHandler{publisher: pub, topic: topic}
}

func (h *NotificationHandler) CanHandle(phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) bool {
	return priority == callback.Latest &&
		phase == callback.Submitted &&
		cb.CaseData.String(fieldCaseCategory) != ""
}

func (h *NotificationHandler) Handle(ctx context.Context, phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) error {
	n := Notification{
		CaseID:   cb.CaseID(),
		EventID:  cb.EventID(),
		State:    cb.State(),
		Category: cb.CaseData.String(fieldCaseCategory),
	}
	return publishJSON(ctx, h.publisher, h.topic, cb, messageID(cb, "notification"), n)
}
