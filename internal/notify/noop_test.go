package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ikea-api-client/internal/watch"
)

func TestNoOpNotifier_Notify(t *testing.T) {
	t.Parallel()

	n := NewNoOpNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := n.Notify(context.Background(), &watch.Transition{Order: "111111111", To: "Delivered"})
	require.NoError(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.IsType(t, &NoOpNotifier{}, New("", log))
	assert.IsType(t, &DiscordNotifier{}, New("https://discord.example/webhook", log))
}

// compile-time interface check.
var _ Notifier = (*NoOpNotifier)(nil)
