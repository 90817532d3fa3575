// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "route"},
	)

	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	RecommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_results",
			Help:    "Number of locations returned per radius query",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	// result: success, error
	ArtifactLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_loads_total",
			Help: "Total number of artifact load attempts",
		},
		[]string{"artifact", "result"},
	)

	DistanceTableLocations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "distance_table_locations",
			Help: "Number of query locations in the loaded distance table",
		},
	)

	PropertiesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "properties_loaded",
			Help: "Number of property listings currently loaded",
		},
	)

	PricePredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_predictions_total",
			Help: "Total number of price predictions",
		},
		[]string{"property_type"},
	)
)
