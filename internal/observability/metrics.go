// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autonation_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autonation_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AutomationOperations counts automation service calls by operation and outcome.
	AutomationOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autonation_automation_operations_total",
		Help: "Total number of automation operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// SubjectCacheLookups counts identity subject cache lookups by result.
	SubjectCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autonation_subject_cache_lookups_total",
		Help: "Total number of subject to user id cache lookups by result",
	}, []string{"result"})

	// RateLimitRejections counts requests rejected by the Redis-backed limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autonation_rate_limit_rejections_total",
		Help: "Total number of requests rejected by rate limiting",
	}, []string{"resource"})
)

// DatabaseMetrics records query latency for repository calls.
type DatabaseMetrics struct{}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

// ObserveQuery records the latency of a database query.
func (*DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// Outcome maps an error to the label used by AutomationOperations.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
