package models

import "time"

// CaseEvent is the serialized case event notification carried on the
// callback topic.
type CaseEvent struct {
	EventID        string      `json:"event_id"`
	CaseDetails    CaseDetails `json:"case_details"`
	EventTimestamp time.Time   `json:"event_timestamp"`
}

// CaseDetails holds the case the event was raised against.
type CaseDetails struct {
	ID         string                 `json:"id"`
	CaseTypeID string                 `json:"case_type_id"`
	State      string                 `json:"state"`
	CaseData   map[string]interface{} `json:"case_data"`
}

// Message header constants
const (
	HeaderMessageID = "message-id"
	HeaderEventID   = "event-id"
	HeaderCaseID    = "case-id"
	HeaderSentAt    = "sent-at"
)
