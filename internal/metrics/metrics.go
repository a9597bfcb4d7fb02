// Package metrics provides Prometheus metrics for table loading, report passes and HTTP traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "msmeinsights"

var (
	// TableLoadsTotal counts table reads from disk by result (ok, failed).
	TableLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_loads_total",
			Help:      "Total number of table reads from disk by result.",
		},
		[]string{"result"},
	)

	// TableLoadDurationSeconds is the time spent parsing a table file.
	TableLoadDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_load_duration_seconds",
			Help:      "Table file parse duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
		},
	)

	// TableCacheHitsTotal counts loads served from the table cache.
	TableCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_cache_hits_total",
			Help:      "Total number of table cache hits.",
		},
	)

	// ReportsTotal counts render passes by final status (ready, fatal).
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Total number of report render passes by status.",
		},
		[]string{"status"},
	)

	// HTTPRequestTotal counts requests by method, route and status.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, path, and status.",
		},
		[]string{"method", "path", "status"},
	)
)
