// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Usage:
//
//	metrics.RecordRelationToggle("favorite", "add", "created")
//	metrics.ObserveHTTPRequest("GET", "/api/recipes/:id", 200, 12*time.Millisecond)
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// RelationTogglesTotal counts favorite / shopping cart / subscription
	// toggles by outcome (created, removed, conflict, not_found, self, error).
	RelationTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_toggles_total",
			Help: "Total number of relation add/remove operations",
		},
		[]string{"relation", "action", "outcome"},
	)

	// ShortCodeCollisionsTotal counts generated short codes rejected by the
	// store unique index.
	ShortCodeCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_short_code_collisions_total",
			Help: "Short codes rejected by the unique index on insert",
		},
	)
)

func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordRelationToggle(relation, action, outcome string) {
	RelationTogglesTotal.WithLabelValues(relation, action, outcome).Inc()
}
