package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petshop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "petshop_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "petshop_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	PanicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "petshop_panic_recoveries_total",
			Help: "Total number of panics recovered in HTTP handlers",
		},
	)

	// RecommendationOutcomes counts recommendation calls by outcome
	// (ok, no_candidates, invalid_request, store_error, model_error, invalid_response).
	RecommendationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petshop_recommendation_outcomes_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	GeneratorLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "petshop_generator_call_duration_seconds",
			Help:    "Latency of calls to the generative text model",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)

	// StoreOperations counts product store calls by operation and result.
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "petshop_store_operations_total",
			Help: "Product store operations by operation and result",
		},
		[]string{"op", "result"},
	)
)
