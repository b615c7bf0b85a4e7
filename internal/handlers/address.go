package handlers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"case-callback/internal/callback"
)

// ukPostcode matches an outward code and inward code with the space
// already removed.
var ukPostcode = regexp.MustCompile(`^(GIR0AA|[A-Z]{1,2}[0-9][A-Z0-9]?[0-9][A-Z]{2})$`)

// AddressHandler normalises the appellant postcode to "OUT IN" form.
// Letters posted later depend on it, so a postcode that cannot be
// parsed drops the message.
type AddressHandler struct{}

func NewAddressHandler() *AddressHandler {
	return &AddressHandler{}
}

func (h *AddressHandler) CanHandle(phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) bool {
	return priority == callback.Earliest && mapAt(cb.CaseData, fieldAppellantAddress) != nil
}

func (h *AddressHandler) Handle(ctx context.Context, phase callback.EventPhase, cb *callback.Callback, priority callback.Priority) error {
	address := mapAt(cb.CaseData, fieldAppellantAddress)
	raw := address.String(fieldPostcode)

	normalised, ok := NormalisePostcode(raw)
	if !ok {
		return callback.Unrecoverable(callback.ReasonInvalidAddress,
			fmt.Errorf("case %s has invalid postcode %q", cb.CaseID(), raw))
	}
	address.Set(fieldPostcode, normalised)
	return nil
}

// NormalisePostcode upper-cases p, strips whitespace and re-inserts a
// single space before the inward code.
func NormalisePostcode(p string) (string, bool) {
	compact := strings.ToUpper(strings.Join(strings.Fields(p), ""))
	if !ukPostcode.MatchString(compact) {
		return "", false
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:], true
}
