// Package metrics exposes process-local Prometheus counters for
// lightweight observability. The persisted page-view map in storage is
// the durable record; these counters only cover the current process and
// must never affect auth or habit correctness.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PageViewCount counts guard/session checks per view path.
	PageViewCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitkit_page_views_total",
			Help: "Total number of view checks per path",
		},
		[]string{"path"},
	)

	// AuthFailureCount counts failed auth operations by reason.
	AuthFailureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitkit_auth_failures_total",
			Help: "Total number of authentication failures",
		},
		[]string{"reason"}, // reason: duplicate_email, account_not_found, invalid_credentials, missing_user, invalid_token, ...
	)

	// HabitOpCount counts habit mutations by kind.
	HabitOpCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitkit_habit_operations_total",
			Help: "Total number of habit operations",
		},
		[]string{"op", "status"}, // op: create, toggle; status: ok, rejected
	)
)

// IncrementPageView records one view check for the given path.
func IncrementPageView(path string) {
	PageViewCount.WithLabelValues(path).Inc()
}

// IncrementAuthFailure records one auth failure with the given reason.
func IncrementAuthFailure(reason string) {
	AuthFailureCount.WithLabelValues(reason).Inc()
}

// IncrementHabitOp records one habit operation outcome.
func IncrementHabitOp(op, status string) {
	HabitOpCount.WithLabelValues(op, status).Inc()
}
