// Package notify delivers order status changes to an external channel.
package notify

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/ikea-api-client/internal/watch"
)

// Notifier sends order status changes somewhere a person will see them.
type Notifier interface {
	Notify(ctx context.Context, t *watch.Transition) error
}

// New returns a DiscordNotifier when webhookURL is set and a NoOpNotifier
// otherwise.
func New(webhookURL string, log *slog.Logger) Notifier {
	if webhookURL == "" {
		return NewNoOpNotifier(log)
	}
	return NewDiscordNotifier(webhookURL)
}
