// Package notify delivers user-facing notifications for reward events. The
// engine only ever talks to the Dispatcher interface; delivery transport is
// the consumer's concern.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Notification is a user-facing message derived from a reward event.
type Notification struct {
	UserID  uuid.UUID `json:"user_id"`
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Dispatcher sends notifications to users.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

// LogDispatcher writes notifications to the structured log. Stands in for a
// push provider in development and in environments without one configured.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a LogDispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, n Notification) error {
	d.logger.Info("notification dispatched",
		"user_id", n.UserID,
		"kind", n.Kind,
		"title", n.Title,
	)
	return nil
}
