package notify

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/ikea-api-client/internal/watch"
)

// NoOpNotifier implements Notifier by logging discarded changes. It is used
// when no webhook is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards changes with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Notify logs and discards a status change.
func (n *NoOpNotifier) Notify(_ context.Context, t *watch.Transition) error {
	n.log.Debug("notification discarded (no backend configured)",
		"order", t.Order,
		"status", t.To,
	)
	return nil
}
