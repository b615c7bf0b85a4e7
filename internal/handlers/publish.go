package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"case-callback/internal/callback"
	"case-callback/pkg/models"

	"github.com/google/uuid"
)

// Publisher sends an encoded message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error
}

// messageNamespace seeds the deterministic message IDs of published
// requests. Retries publish the same ID, so downstream consumers can
// discard repeats.
var messageNamespace = uuid.MustParse("8f0b8d62-4c61-4b8e-9a0e-5c2d9f7e3a11")

// messageID identifies one message produced for one case event. The
// event timestamp separates repeated events of the same type on a case.
func messageID(cb *callback.Callback, kind string) string {
	name := strings.Join([]string{
		cb.CaseID(),
		cb.EventID(),
		cb.Timestamp().UTC().Format(time.RFC3339Nano),
		kind,
	}, "/")
	return uuid.NewSHA1(messageNamespace, []byte(name)).String()
}

// publishJSON encodes v and publishes it keyed by case ID. Publish
// failures are left untagged, so the consumer retries them.
func publishJSON(ctx context.Context, pub Publisher, topic string, cb *callback.Callback, id string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message for case %s: %w", cb.CaseID(), err)
	}

	headers := map[string]string{
		models.HeaderMessageID: id,
		models.HeaderEventID:   cb.EventID(),
		models.HeaderCaseID:    cb.CaseID(),
		models.HeaderSentAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := pub.Publish(ctx, topic, cb.CaseID(), payload, headers); err != nil {
		return fmt.Errorf("publish to %s for case %s: %w", topic, cb.CaseID(), err)
	}
	return nil
}
