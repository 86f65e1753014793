package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream letter API call latency (milliseconds), per proxy endpoint.
	UpstreamCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_call_latency_ms",
			Help:    "Letter API call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"endpoint", "status"},
	)

	// HTTP request latency (seconds).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Letter-history cache reads, split by outcome.
	CacheReadCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "letter_cache_read_count",
			Help: "Total letter cache reads",
		},
		[]string{"result"}, // result: hit, miss, expired
	)

	// Background sync runs, split by outcome.
	SyncRunCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "letter_sync_run_count",
			Help: "Total background sync runs",
		},
		[]string{"result"}, // result: unchanged, changed, failed
	)

	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total queries slower than the configured threshold",
		},
	)
)

// RecordUpstreamCallLatency records a letter API call.
func RecordUpstreamCallLatency(endpoint, status string, duration time.Duration) {
	UpstreamCallLatency.WithLabelValues(endpoint, status).Observe(float64(duration.Milliseconds()))
}

// RecordHTTPRequestDuration records an HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementCacheRead counts a cache read outcome.
func IncrementCacheRead(result string) {
	CacheReadCount.WithLabelValues(result).Inc()
}

// IncrementSyncRun counts a background sync outcome.
func IncrementSyncRun(result string) {
	SyncRunCount.WithLabelValues(result).Inc()
}

// IncrementSlowQuery counts a slow database query.
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}
