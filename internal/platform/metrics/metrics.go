// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "itinerary"

var (
	// PlansTotal counts planner calls by entry point and outcome.
	PlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plans_total",
		Help:      "Planner calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	// SearchStatesExpanded counts expanded search states per search kind.
	SearchStatesExpanded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_states_expanded_total",
		Help:      "Search states expanded, by search.",
	}, []string{"search"})

	PlanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "plan_duration_seconds",
		Help:      "Wall time of planner calls.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"operation"})

	// TravelLookups counts travel provider lookups by source (cache or upstream).
	TravelLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "travel_lookups_total",
		Help:      "Travel duration lookups by source.",
	}, []string{"source"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "status"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
