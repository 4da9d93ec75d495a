// Package watch polls order status on a cron schedule and reports
// transitions.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/ikea-api-client/internal/metrics"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

const defaultPollTimeout = time.Minute

// OrderFetcher returns the current state of an order.
type OrderFetcher interface {
	PurchaseInfo(ctx context.Context, orderNumber, email string) (domain.PurchaseInfo, error)
}

// Transition is an observed status change. From is empty on the first
// observation of an order.
type Transition struct {
	Order string
	From  string
	To    string
	Info  domain.PurchaseInfo
	At    time.Time
}

// Watcher polls a fixed set of orders.
type Watcher struct {
	cron     *cron.Cron
	fetcher  OrderFetcher
	orders   []string
	email    string
	log      *slog.Logger
	onChange func(Transition)
	timeout  time.Duration
	nowFunc  func() time.Time

	mu   sync.Mutex
	last map[string]string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// WithEmail sets the email used to look up orders placed without an account.
func WithEmail(email string) Option {
	return func(w *Watcher) {
		w.email = email
	}
}

// WithOnChange registers a callback for status transitions.
func WithOnChange(f func(Transition)) Option {
	return func(w *Watcher) {
		w.onChange = f
	}
}

// WithPollTimeout bounds a single poll of all orders.
func WithPollTimeout(d time.Duration) Option {
	return func(w *Watcher) {
		w.timeout = d
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(w *Watcher) {
		w.nowFunc = f
	}
}

// NewWatcher creates a Watcher that polls orders on schedule, a standard
// cron spec or an @every descriptor.
func NewWatcher(f OrderFetcher, schedule string, orders []string, opts ...Option) (*Watcher, error) {
	if len(orders) == 0 {
		return nil, fmt.Errorf("no orders to watch")
	}

	w := &Watcher{
		cron:    cron.New(),
		fetcher: f,
		orders:  orders,
		log:     slog.Default(),
		timeout: defaultPollTimeout,
		nowFunc: time.Now,
		last:    make(map[string]string, len(orders)),
	}
	for _, opt := range opts {
		opt(w)
	}

	if _, err := w.cron.AddFunc(schedule, w.runPoll); err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", schedule, err)
	}

	return w, nil
}

// Start begins polling in the background.
func (w *Watcher) Start() {
	w.log.Info("order watcher started", "orders", len(w.orders))
	w.cron.Start()
}

// Stop stops polling; the returned context is done once a running poll
// finishes.
func (w *Watcher) Stop() context.Context {
	w.log.Info("order watcher stopping")
	return w.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (w *Watcher) Entries() []cron.Entry {
	return w.cron.Entries()
}

// Statuses returns the last observed status of each order.
func (w *Watcher) Statuses() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]string, len(w.last))
	for k, v := range w.last {
		out[k] = v
	}
	return out
}

func (w *Watcher) runPoll() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	w.Poll(ctx)
}

// Poll checks every order once. Failures are logged and counted; the other
// orders are still checked.
func (w *Watcher) Poll(ctx context.Context) {
	for _, order := range w.orders {
		info, err := w.fetcher.PurchaseInfo(ctx, order, w.email)
		if err != nil {
			metrics.OrderChecksTotal.WithLabelValues("error").Inc()
			w.log.Error("checking order failed", "order", order, "error", err)
			continue
		}
		metrics.OrderChecksTotal.WithLabelValues("ok").Inc()

		w.mu.Lock()
		prev, seen := w.last[order]
		w.last[order] = info.Status
		w.mu.Unlock()

		if seen && prev == info.Status {
			continue
		}
		if seen {
			metrics.OrderStatusChangesTotal.Inc()
			w.log.Info("order status changed", "order", order, "from", prev, "to", info.Status)
		}

		if w.onChange != nil {
			w.onChange(Transition{
				Order: order,
				From:  prev,
				To:    info.Status,
				Info:  info,
				At:    w.nowFunc(),
			})
		}
	}
}
