// Package metrics expõe os contadores Prometheus do serviço.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by path pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "costs_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"path", "code"})

	// UpstreamAttempts counts attempts against the cost-management API by endpoint and result.
	UpstreamAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "costs_upstream_attempts_total",
		Help: "Attempts against the Azure Cost Management API.",
	}, []string{"endpoint", "result"})

	// UpstreamDuration observes upstream request latency per endpoint.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "costs_upstream_request_duration_seconds",
		Help:    "Latency of Azure Cost Management API requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// CacheHits counts response cache hits and misses.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "costs_response_cache_events_total",
		Help: "Response cache hits and misses.",
	}, []string{"event"})
)
