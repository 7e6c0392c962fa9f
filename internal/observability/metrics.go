// Package observability holds Prometheus collectors and OpenTelemetry tracing setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session outcomes recorded in SessionsTotal.
const (
	OutcomeCommitted    = "committed"
	OutcomeRolledBack   = "rolled_back"
	OutcomeCommitFailed = "commit_failed"
	OutcomeBeginFailed  = "begin_failed"
)

var (
	// SessionsTotal counts unit-of-work sessions by operation and outcome.
	SessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_store_sessions_total",
		Help: "Total number of store sessions by operation and outcome",
	}, []string{"operation", "outcome"})

	// SessionDuration records how long a session held its transaction.
	SessionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "posts_store_session_duration_seconds",
		Help:    "Store session duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RateLimitRejections counts requests refused by the rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"reason"})
)

// ObserveSession records the final outcome and duration of a session.
func ObserveSession(operation, outcome string, start time.Time) {
	SessionsTotal.WithLabelValues(operation, outcome).Inc()
	SessionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
