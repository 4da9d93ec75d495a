package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/ikea-api-client/internal/metrics"
	"github.com/donaldgifford/ikea-api-client/internal/watch"
)

const (
	colorBlue   = 0x0058A3 // first sighting
	colorYellow = 0xFFDB00 // status changed
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title     string              `json:"title"`
	Color     int                 `json:"color"`
	Timestamp string              `json:"timestamp,omitempty"`
	Fields    []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Notify sends a status change as a Discord embed.
func (d *DiscordNotifier) Notify(ctx context.Context, t *watch.Transition) error {
	start := time.Now()
	err := d.post(ctx, discordWebhookPayload{Embeds: []discordEmbed{buildEmbed(t)}})
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.NotificationsTotal.WithLabelValues(result).Inc()
	return err
}

func buildEmbed(t *watch.Transition) discordEmbed {
	embed := discordEmbed{
		Title: fmt.Sprintf("Order %s: %s", t.Order, t.To),
		Color: colorYellow,
	}
	if !t.At.IsZero() {
		embed.Timestamp = t.At.UTC().Format(time.RFC3339)
	}

	from := t.From
	if from == "" {
		embed.Color = colorBlue
		from = "-"
	}
	embed.Fields = append(embed.Fields,
		discordEmbedField{Name: "Previous", Value: from, Inline: true},
		discordEmbedField{Name: "Status", Value: t.To, Inline: true},
	)

	if !t.Info.Total.IsZero() {
		total := t.Info.Total.StringFixed(2)
		if t.Info.Currency != "" {
			total += " " + t.Info.Currency
		}
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Total", Value: total, Inline: true})
	}
	if t.Info.DeliveryDate != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Delivery", Value: t.Info.DeliveryDate, Inline: true})
	}

	return embed
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.New("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
