// Package metrics defines Prometheus metrics for ikea-api-client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ikea"

// Upstream HTTP metrics, recorded by the executors.
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of HTTP requests sent to IKEA services.",
	}, []string{"driver", "host", "method", "status"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of HTTP requests to IKEA services in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"driver", "host"})

	UpstreamTransportErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_transport_errors_total",
		Help:      "Total number of requests that failed before a response arrived.",
	}, []string{"driver", "host"})
)

// Endpoint metrics, recorded by ikea.Run.
var (
	EndpointRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "endpoint_runs_total",
		Help:      "Total number of endpoint runs by outcome.",
	}, []string{"endpoint", "outcome"})

	EndpointRounds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "endpoint_rounds",
		Help:      "Number of request/response rounds per endpoint run.",
		Buckets:   prometheus.LinearBuckets(1, 1, 10), // 1, 2, ..., 10
	}, []string{"endpoint"})
)

// Item resolution and auth metrics.
var (
	IOWSCodesFlippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "iows_codes_flipped_total",
		Help:      "Total number of IOWS item codes re-requested as SPR after an ART miss.",
	})

	IOWSCodesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "iows_codes_dropped_total",
		Help:      "Total number of IOWS item codes dropped after failing as both ART and SPR.",
	})

	TokenRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token fetches by provider.",
	}, []string{"provider"})

	RateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rate_limit_wait_seconds",
		Help:      "Time spent waiting on the client-side rate limiter.",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

// Watcher metrics.
var (
	OrderChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_checks_total",
		Help:      "Total number of order status checks by result.",
	}, []string{"result"})

	OrderStatusChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of observed order status transitions.",
	})
)

// Notification metrics.
var (
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of status change notifications by result.",
	}, []string{"result"})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification webhook deliveries in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Mock server metrics.
var (
	MockRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mock",
		Name:      "requests_total",
		Help:      "Total number of requests served by the mock IKEA server.",
	}, []string{"method", "path", "status"})

	MockRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "mock",
		Name:      "request_duration_seconds",
		Help:      "Duration of mock IKEA server requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
