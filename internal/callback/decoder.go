package callback

import (
	"encoding/json"
	"fmt"

	"case-callback/pkg/models"
)

// Decoder turns a raw message into a Callback.
type Decoder interface {
	Decode(raw []byte) (*Callback, error)
}

// JSONDecoder decodes the models.CaseEvent JSON wire format.
type JSONDecoder struct{}

func NewJSONDecoder() *JSONDecoder {
	return &JSONDecoder{}
}

// Decode parses raw and checks the identifying fields. Failures wrap
// ErrMalformed and are left untagged, so the consumer retries them.
func (JSONDecoder) Decode(raw []byte) (*Callback, error) {
	var ev models.CaseEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ev.EventID == "" {
		return nil, fmt.Errorf("%w: missing event_id", ErrMalformed)
	}
	if ev.CaseDetails.ID == "" {
		return nil, fmt.Errorf("%w: missing case_details.id", ErrMalformed)
	}

	return New(
		ev.EventID,
		ev.CaseDetails.ID,
		ev.CaseDetails.CaseTypeID,
		ev.CaseDetails.State,
		ev.EventTimestamp,
		CaseData(ev.CaseDetails.CaseData),
	), nil
}
