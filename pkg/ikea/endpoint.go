package ikea

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/ikea-api-client/internal/metrics"
)

// MaxRounds caps the number of requests a single endpoint run may yield.
const MaxRounds = 10

const tracerName = "github.com/donaldgifford/ikea-api-client/pkg/ikea"

// Step advances an endpoint. It receives the response to the previously
// yielded request (nil on the first call) and returns the next request, or a
// nil request together with the final result.
type Step[T any] func(resp *ResponseInfo) (*RequestInfo, T, error)

// Endpoint is a named, resumable API operation. An Endpoint keeps per-run
// state in its step function and must be run at most once.
type Endpoint[T any] struct {
	Name     string
	Handlers []ErrorHandler
	step     Step[T]
}

// NewEndpoint creates an endpoint from a step function. Handlers run against
// every response, in order, before it reaches step.
func NewEndpoint[T any](name string, step Step[T], handlers ...ErrorHandler) *Endpoint[T] {
	return &Endpoint[T]{Name: name, Handlers: handlers, step: step}
}

// Single creates an endpoint that performs exactly one request.
func Single[T any](
	name string,
	req *RequestInfo,
	parse func(*ResponseInfo) (T, error),
	handlers ...ErrorHandler,
) *Endpoint[T] {
	sent := false
	return NewEndpoint(name, func(resp *ResponseInfo) (*RequestInfo, T, error) {
		var zero T
		if !sent {
			sent = true
			return req, zero, nil
		}
		v, err := parse(resp)
		if err != nil {
			return nil, zero, fmt.Errorf("%s: %w", name, err)
		}
		return nil, v, nil
	}, handlers...)
}

// DecodeInto is a parse func for Single that unmarshals JSON into T.
func DecodeInto[T any](resp *ResponseInfo) (T, error) {
	var v T
	if err := resp.DecodeJSON(&v); err != nil {
		return v, err
	}
	return v, nil
}

// Next advances the endpoint by one step.
func (e *Endpoint[T]) Next(resp *ResponseInfo) (*RequestInfo, T, error) {
	return e.step(resp)
}

// Executor performs the HTTP call described by a RequestInfo.
type Executor interface {
	Execute(ctx context.Context, req *RequestInfo) (*ResponseInfo, error)
}

// RunOption configures a single Run.
type RunOption func(*runConfig)

type runConfig struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// WithLogger sets the logger used for per-round debug output.
func WithLogger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = l
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) RunOption {
	return func(c *runConfig) {
		c.tracer = t
	}
}

// Run drives ep to completion over ex.
func Run[T any](ctx context.Context, ex Executor, ep *Endpoint[T], opts ...RunOption) (T, error) {
	cfg := runConfig{
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, span := cfg.tracer.Start(ctx, "ikea."+ep.Name)
	defer span.End()

	result, rounds, err := run(ctx, ex, ep, cfg.logger)

	span.SetAttributes(attribute.Int("ikea.rounds", rounds))
	metrics.EndpointRounds.WithLabelValues(ep.Name).Observe(float64(rounds))
	metrics.EndpointRunsTotal.WithLabelValues(ep.Name, outcome(err)).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var zero T
		return zero, err
	}
	return result, nil
}

func run[T any](
	ctx context.Context,
	ex Executor,
	ep *Endpoint[T],
	log *slog.Logger,
) (T, int, error) {
	var (
		zero T
		resp *ResponseInfo
	)

	for round := 0; ; round++ {
		req, result, err := ep.Next(resp)
		if err != nil {
			return zero, round, err
		}
		if req == nil {
			return result, round, nil
		}
		if round >= MaxRounds {
			return zero, round, fmt.Errorf("%s: %w (%d)", ep.Name, ErrTooManyRounds, MaxRounds)
		}
		if err := ctx.Err(); err != nil {
			return zero, round, err
		}

		resp, err = ex.Execute(ctx, req)
		if err != nil {
			return zero, round + 1, fmt.Errorf("%s: executing request: %w", ep.Name, err)
		}

		log.DebugContext(ctx, "endpoint round",
			"endpoint", ep.Name,
			"round", round+1,
			"method", req.Method,
			"url", resp.URL,
			"status", resp.StatusCode,
		)

		for _, h := range ep.Handlers {
			if err := h(resp); err != nil {
				return zero, round + 1, err
			}
		}
	}
}

func outcome(err error) string {
	var (
		authErr *AuthError
		jsonErr *JSONError
		gqlErr  *GraphQLError
		itemErr *ItemFetchError
		apiErr  *APIError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &authErr):
		return "auth_error"
	case errors.As(err, &jsonErr):
		return "json_error"
	case errors.As(err, &gqlErr):
		return "graphql_error"
	case errors.As(err, &itemErr):
		return "item_fetch_error"
	case errors.As(err, &apiErr):
		return "api_error_" + strconv.Itoa(apiErr.Response.StatusCode/100) + "xx"
	case errors.Is(err, ErrTooManyRounds):
		return "too_many_rounds"
	default:
		return "error"
	}
}
