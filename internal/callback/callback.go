// Package callback decodes case event notifications and fans them out
// to an ordered set of handlers in two priority tiers.
package callback

import (
	"fmt"
	"time"
)

// EventPhase identifies the point in a case event's lifecycle that a
// callback was raised for.
type EventPhase int

const (
	AboutToStart EventPhase = iota
	AboutToSubmit
	Submitted
)

func (p EventPhase) String() string {
	switch p {
	case AboutToStart:
		return "ABOUT_TO_START"
	case AboutToSubmit:
		return "ABOUT_TO_SUBMIT"
	case Submitted:
		return "SUBMITTED"
	default:
		return fmt.Sprintf("EventPhase(%d)", int(p))
	}
}

// CaseData is the mutable case payload. Handlers run in registration
// order and later handlers read fields written by earlier ones, so the
// map is shared by reference for the lifetime of one dispatch.
type CaseData map[string]interface{}

// String returns the value under key when it is a string, or "".
func (d CaseData) String(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Map returns the nested object under key, or nil.
func (d CaseData) Map(key string) CaseData {
	switch v := d[key].(type) {
	case map[string]interface{}:
		return CaseData(v)
	case CaseData:
		return v
	}
	return nil
}

func (d CaseData) Set(key string, value interface{}) {
	d[key] = value
}

// Callback is one decoded case event notification. The identifying
// fields are fixed at decode time; CaseData may be mutated by handlers.
type Callback struct {
	eventID   string
	caseID    string
	caseType  string
	state     string
	timestamp time.Time

	CaseData CaseData
}

// New builds a Callback. A nil data map is replaced by an empty one.
func New(eventID, caseID, caseType, state string, ts time.Time, data CaseData) *Callback {
	if data == nil {
		data = CaseData{}
	}
	return &Callback{
		eventID:   eventID,
		caseID:    caseID,
		caseType:  caseType,
		state:     state,
		timestamp: ts,
		CaseData:  data,
	}
}

func (c *Callback) EventID() string      { return c.eventID }
func (c *Callback) CaseID() string       { return c.caseID }
func (c *Callback) CaseType() string     { return c.caseType }
func (c *Callback) State() string        { return c.state }
func (c *Callback) Timestamp() time.Time { return c.timestamp }
