package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ikea-api-client/internal/metrics"
	"github.com/donaldgifford/ikea-api-client/internal/watch"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

func testTransition(from string) watch.Transition {
	return watch.Transition{
		Order: "111111111",
		From:  from,
		To:    "Delivered",
		Info: domain.PurchaseInfo{
			ID:           "111111111",
			Status:       "Delivered",
			DeliveryDate: "2026-03-14",
			Total:        decimal.RequireFromString("129.5"),
			Currency:     "EUR",
		},
		At: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestDiscordNotifier_Notify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		transition   watch.Transition
		statusCode   int
		wantErr      bool
		errMsg       string
		wantColor    int
		wantPrevious string
	}{
		{
			name:         "status change uses yellow",
			transition:   testTransition("In progress"),
			statusCode:   http.StatusNoContent,
			wantColor:    colorYellow,
			wantPrevious: "In progress",
		},
		{
			name:         "first sighting uses blue",
			transition:   testTransition(""),
			statusCode:   http.StatusNoContent,
			wantColor:    colorBlue,
			wantPrevious: "-",
		},
		{
			name:       "discord returns 429 rate limited",
			transition: testTransition("In progress"),
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "discord returns 400 error",
			transition: testTransition("In progress"),
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "discord returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					err := json.NewDecoder(r.Body).Decode(&received)
					assert.NoError(t, err)

					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			d := NewDiscordNotifier(srv.URL)
			err := d.Notify(context.Background(), &tt.transition)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			require.Len(t, received.Embeds, 1)

			embed := received.Embeds[0]
			assert.Equal(t, tt.wantColor, embed.Color)
			assert.Equal(t, "Order 111111111: Delivered", embed.Title)
			assert.Equal(t, "2026-03-14T09:30:00Z", embed.Timestamp)

			fieldMap := make(map[string]string)
			for _, f := range embed.Fields {
				fieldMap[f.Name] = f.Value
			}
			assert.Equal(t, tt.wantPrevious, fieldMap["Previous"])
			assert.Equal(t, "Delivered", fieldMap["Status"])
			assert.Equal(t, "129.50 EUR", fieldMap["Total"])
			assert.Equal(t, "2026-03-14", fieldMap["Delivery"])
		})
	}
}

func TestDiscordNotifier_NoTotal(t *testing.T) {
	t.Parallel()

	var received discordWebhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&received)
		assert.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscordNotifier(srv.URL)
	err := d.Notify(context.Background(), &watch.Transition{Order: "222222222", To: "Cancelled"})
	require.NoError(t, err)

	require.Len(t, received.Embeds, 1)
	assert.Len(t, received.Embeds[0].Fields, 2)
	assert.Empty(t, received.Embeds[0].Timestamp)
}

func TestDiscordNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("http://127.0.0.1:1") // nothing listening
	tr := testTransition("In progress")
	err := d.Notify(context.Background(), &tr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

func TestDiscordNotifier_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("://not-a-valid-url")
	tr := testTransition("In progress")
	err := d.Notify(context.Background(), &tr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating discord request")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	d := NewDiscordNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, d.client)
}

func notificationSampleCount() uint64 {
	ch := make(chan prometheus.Metric, 1)
	metrics.NotificationDuration.Collect(ch)
	m := <-ch
	pb := &dto.Metric{}
	_ = m.Write(pb)
	return pb.GetHistogram().GetSampleCount()
}

func TestNotify_ObservesNotificationDuration(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	before := notificationSampleCount()

	d := NewDiscordNotifier(srv.URL)
	tr := testTransition("In progress")
	require.NoError(t, d.Notify(context.Background(), &tr))

	assert.Greater(t, notificationSampleCount(), before)
}
