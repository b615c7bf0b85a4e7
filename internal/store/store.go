// Package store defines the case store used by the case update handler.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrCaseNotFound is returned when an update targets a case the store
// has never seen.
var ErrCaseNotFound = errors.New("case not found")

// CaseUpdate is the data written back after a callback is dispatched.
type CaseUpdate struct {
	CaseID    string
	EventID   string
	State     string
	Data      map[string]interface{}
	EventTime time.Time
}

type CaseStore interface {
	UpdateCase(ctx context.Context, update CaseUpdate) error
}
