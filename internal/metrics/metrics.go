// Package metrics declares the prometheus collectors shared by the service.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Guyuepp/recipe-engagement/domain"
)

const namespace = "engagement"

var (
	LikeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "like_operations_total",
		Help:      "Like ledger writes by operation and outcome.",
	}, []string{"op", "outcome"})

	StatsDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_degraded_total",
		Help:      "Stats requests that fell back to per-item queries.",
	})

	StatsItemFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_item_failures_total",
		Help:      "Per-item stats queries that failed on the degraded path.",
	})

	FanoutEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fanout_events_total",
		Help:      "Engagement events seen by the fan-out worker by result.",
	}, []string{"result"})

	SubscriberFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_subscriber_failures_total",
		Help:      "Notification subscriber callbacks that returned an error or panicked.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Outcome labels an error by its domain kind
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrBadParamInput):
		return "bad_param"
	case errors.Is(err, domain.ErrTransient):
		return "transient"
	default:
		return "error"
	}
}
