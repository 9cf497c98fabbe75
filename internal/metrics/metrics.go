package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LifecycleOperations counts credential lifecycle operations by outcome
	// (ok|invalid|rejected|error).
	LifecycleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_lifecycle_operations_total",
			Help: "Total number of credential lifecycle operations",
		},
		[]string{"operation", "outcome"},
	)

	// EmailsSent counts outbound notifications by kind and result (sent|failed).
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_emails_total",
			Help: "Total number of notification emails attempted",
		},
		[]string{"kind", "result"},
	)

	// HTTPRequestDuration measures HTTP request latencies.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "accounts_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
