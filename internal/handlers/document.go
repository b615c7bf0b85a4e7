package handlers

import (
	"context"

	"case-callback/internal/callback"
)

// DefaultDocumentTemplates maps events to the letter each one triggers.
var DefaultDocumentTemplates = map[string]string{
	"appealReceived":     "TB-SCS-GNO-ENG-appeal-received.docx",
	"validAppealCreated": "TB-SCS-GNO-ENG-valid-appeal.docx",
	"hearingBooked":      "TB-SCS-GNO-ENG-hearing-booked.docx",
	"directionIssued":    "TB-SCS-GNO-ENG-direction-notice.docx",
}

// DocumentRequest asks the document service to render and post a letter.
type DocumentRequest struct {
	CaseID    string            `json:"case_id"`
	EventID   string            `json:"event_id"`
	Template  string            `json:"template"`
	Category  string            `json:"case_category"`
	Recipient map[string]string `json:"recipient"`
}

// DocumentRequestHandler publishes a DocumentRequest for events that
// produce a letter.
type DocumentRequestHandler struct {
	publisher Publisher
	topic     string
	templates map[string]string
}

func NewDocumentRequestHandler(pub Publisher, topic string, templates map[string]string) *DocumentRequestHandler {
	if templates == nil {
		templates = DefaultDocumentTemplates
	}
	return &DocumentRequestHandler{publisher: pub, topic: topic, templates: templates}
}

func (h *DocumentRequestHandler) CanHandle(phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) bool {
	if priority != callback.Latest || phase != callback.Submitted {
		return false
	}
	_, ok := h.templates[cb.EventID()]
	return ok && cb.CaseData.String(fieldCaseCategory) != ""
}

func (h *DocumentRequestHandler) Handle(ctx context.Context, phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) error {
	template := h.templates[cb.EventID()]
	req := DocumentRequest{
		CaseID:   cb.CaseID(),
		EventID:  cb.EventID(),
		Template: template,
		Category: cb.CaseData.String(fieldCaseCategory),
		Recipient: map[string]string{
			"lastName": stringAt(cb.CaseData, fieldAppellantSurname),
			"postcode": stringAt(cb.CaseData, fieldAppellantAddress+"."+fieldPostcode),
		},
	}
	return publishJSON(ctx, h.publisher, h.topic, cb, messageID(cb, template), req)
}
