// Package handlers holds the business handlers run by the callback
// dispatcher and the ordered registry the service starts with.
package handlers

import (
	"case-callback/internal/callback"
	"case-callback/internal/store"
)

type Dependencies struct {
	Store             store.CaseStore
	Publisher         Publisher
	DocumentTopic     string
	NotificationTopic string
}

// Registry returns the handlers in dispatch order. Order is significant:
// the EARLIEST handlers validate then categorise, and every LATEST
// handler reads the category written by CategoryHandler.
func Registry(deps Dependencies) []callback.Handler {
	return []callback.Handler{
		NewRequiredFieldsHandler(),
		NewAddressHandler(),
		NewCategoryHandler(nil),
		NewCaseUpdateHandler(deps.Store),
		NewDocumentRequestHandler(deps.Publisher, deps.DocumentTopic, nil),
		NewNotificationHandler(deps.Publisher, deps.NotificationTopic),
	}
}
