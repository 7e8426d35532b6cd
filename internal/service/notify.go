package service

import (
	"context"
	"log/slog"

	"github.com/ekyte/intake/internal/db"
)

type NotificationKind string

const (
	NotifyTaskCreated   NotificationKind = "task_created"
	NotifyTicketCreated NotificationKind = "ticket_created"
)

// Notification tells a user about a newly created item.
type Notification struct {
	Kind        NotificationKind
	CompanyID   int64
	RecipientID string
	ActorID     string
	EntityID    int64
	Title       string
}

// Notifier dispatches notifications after the creating transaction has
// committed.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Notification) error { return nil }

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier records notifications as structured log entries.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(ctx context.Context, msg Notification) error {
	n.logger.InfoContext(ctx, "notification",
		"kind", string(msg.Kind),
		"company_id", msg.CompanyID,
		"recipient_id", msg.RecipientID,
		"actor_id", msg.ActorID,
		"entity_id", msg.EntityID,
		"title", msg.Title,
	)
	return nil
}

// notifyAfterCommit queues n for dispatch once the transaction in ctx
// commits. A failed dispatch is logged and otherwise ignored.
func notifyAfterCommit(ctx context.Context, c Collaborators, n Notification) {
	dispatch := func() {
		if err := c.Notifier.Notify(context.WithoutCancel(ctx), n); err != nil {
			c.Logger.WarnContext(ctx, "notification dispatch failed",
				"kind", string(n.Kind), "entity_id", n.EntityID, "error", err)
		}
	}
	db.AfterCommit(ctx, dispatch)
}
