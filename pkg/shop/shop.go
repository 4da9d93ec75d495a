// Package shop composes the IKEA endpoints into the flows a user actually
// runs: filling a cart, looking up items, quoting delivery and reading
// purchase history.
package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/ikea-api-client/pkg/ikea"
	"github.com/donaldgifford/ikea-api-client/pkg/ikea/parse"
	domain "github.com/donaldgifford/ikea-api-client/pkg/types"
)

const defaultConcurrency = 4

// Shop runs endpoints over one executor for one market.
type Shop struct {
	executor    ikea.Executor
	constants   ikea.Constants
	tokens      ikea.TokenProvider
	log         *slog.Logger
	concurrency int
}

// Option configures a Shop.
type Option func(*Shop)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shop) {
		s.log = l
	}
}

// WithConcurrency bounds the number of requests a flow issues in parallel.
func WithConcurrency(n int) Option {
	return func(s *Shop) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a Shop. tokens authorizes cart, order capture and purchase
// calls; it may be nil when only item lookups and search are used.
func New(ex ikea.Executor, c ikea.Constants, tokens ikea.TokenProvider, opts ...Option) *Shop {
	s := &Shop{
		executor:    ex,
		constants:   c,
		tokens:      tokens,
		log:         slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// invalidator is implemented by token providers that cache tokens.
type invalidator interface {
	Invalidate()
}

func run[T any](ctx context.Context, s *Shop, ep *ikea.Endpoint[T]) (T, error) {
	return ikea.Run(ctx, s.executor, ep, ikea.WithLogger(s.log))
}

// authorized runs the endpoint built by build with a token. A rejected
// cached token is dropped and the call retried once.
func authorized[T any](ctx context.Context, s *Shop, build func(token string) *ikea.Endpoint[T]) (T, error) {
	var zero T
	if s.tokens == nil {
		return zero, ikea.ErrNoToken
	}

	for attempt := 0; ; attempt++ {
		token, err := s.tokens.Token(ctx)
		if err != nil {
			return zero, fmt.Errorf("getting token: %w", err)
		}

		v, err := run(ctx, s, build(token))
		if err == nil {
			return v, nil
		}

		inv, ok := s.tokens.(invalidator)
		if attempt > 0 || !ok || !errors.Is(err, ikea.ErrUnauthorized) {
			return zero, err
		}
		s.log.Debug("token rejected, refreshing", "err", err)
		inv.Invalidate()
	}
}

// Cart returns the current cart.
func (s *Shop) Cart(ctx context.Context) (domain.Cart, error) {
	data, err := authorized(ctx, s, func(token string) *ikea.Endpoint[*ikea.CartData] {
		return ikea.NewCart(s.constants, token).Show()
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return parse.Cart(data), nil
}

// Search returns product hits for query.
func (s *Shop) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	resp, err := run(ctx, s, ikea.NewSearch(s.constants, query, limit))
	if err != nil {
		return nil, err
	}
	return parse.SearchResults(&resp), nil
}

// PurchaseHistory lists past orders, newest first.
func (s *Shop) PurchaseHistory(ctx context.Context, take, skip int) ([]domain.PurchaseHistoryItem, error) {
	entries, err := authorized(ctx, s, func(token string) *ikea.Endpoint[[]ikea.PurchaseHistoryEntry] {
		return ikea.NewPurchases(s.constants, token).History(take, skip)
	})
	if err != nil {
		return nil, err
	}
	return parse.PurchaseHistory(s.constants.Language, entries), nil
}

// PurchaseInfo details one order. email is only needed for orders placed
// without an account.
func (s *Shop) PurchaseInfo(ctx context.Context, orderNumber, email string) (domain.PurchaseInfo, error) {
	info, err := authorized(ctx, s, func(token string) *ikea.Endpoint[*ikea.OrderInfoResponse] {
		return ikea.NewPurchases(s.constants, token).OrderInfo(orderNumber, email)
	})
	if err != nil {
		return domain.PurchaseInfo{}, err
	}
	return parse.PurchaseInfo(s.constants.Language, info), nil
}
