package callback

import (
	"errors"
	"fmt"
)

// Kind tells the consumer what to do with a failed attempt.
type Kind int

const (
	// KindTransient failures are retried until the attempt limit.
	KindTransient Kind = iota
	// KindUnrecoverable failures drop the message after the current attempt.
	KindUnrecoverable
)

func (k Kind) String() string {
	if k == KindUnrecoverable {
		return "unrecoverable"
	}
	return "transient"
}

// Reason is the closed set of business failures that can never succeed
// on retry.
type Reason string

const (
	ReasonInvalidField    Reason = "invalid_field"
	ReasonInvalidAddress  Reason = "invalid_address"
	ReasonStorageReported Reason = "storage_reported"
	ReasonUnauthorized    Reason = "unauthorized"
)

// Valid reports whether r is one of the known unrecoverable reasons.
func (r Reason) Valid() bool {
	switch r {
	case ReasonInvalidField, ReasonInvalidAddress, ReasonStorageReported, ReasonUnauthorized:
		return true
	}
	return false
}

// Error carries an explicit kind tag alongside the underlying failure.
type Error struct {
	Kind   Kind
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s error (%s): %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unrecoverable tags err as a terminal business failure. A reason
// outside the known set yields a transient error instead, so a message is
// never dropped without a recognised reason.
func Unrecoverable(reason Reason, err error) error {
	if !reason.Valid() {
		return &Error{Kind: KindTransient, Err: fmt.Errorf("unknown unrecoverable reason %q: %w", reason, err)}
	}
	return &Error{Kind: KindUnrecoverable, Reason: reason, Err: err}
}

// Transient tags err as retryable. Untagged errors are already treated
// as transient; this exists for call sites that want to be explicit.
func Transient(err error) error {
	return &Error{Kind: KindTransient, Err: err}
}

// KindOf reports the kind of the outermost tagged error in err's chain.
// Errors without a tag, and unrecoverable tags built without a known
// reason, are transient.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) && tagged.Kind == KindUnrecoverable && tagged.Reason.Valid() {
		return KindUnrecoverable
	}
	return KindTransient
}

// ReasonOf returns the unrecoverable reason attached to err, if any.
func ReasonOf(err error) Reason {
	var tagged *Error
	if errors.As(err, &tagged) && tagged.Kind == KindUnrecoverable && tagged.Reason.Valid() {
		return tagged.Reason
	}
	return ""
}

// ErrMalformed is wrapped by every decoding failure.
var ErrMalformed = errors.New("malformed callback")
