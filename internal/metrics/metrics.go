// Package metrics provides Prometheus metrics collection for the pokebay service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PlansTotal tracks optimization runs by outcome.
	PlansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plans_total",
			Help: "Total number of optimization runs",
		},
		[]string{"status"},
	)

	// PlanDuration tracks end-to-end optimization run duration.
	PlanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plan_duration_seconds",
			Help:    "Optimization run duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
	)

	// SolveDuration tracks time spent inside the engine.
	SolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solve_duration_seconds",
			Help:    "Engine solve duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	// ProviderFetchesTotal tracks upstream provider calls by provider and result.
	ProviderFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_fetches_total",
			Help: "Total number of provider fetches",
		},
		[]string{"provider", "result"},
	)

	// CacheOperationsTotal tracks offer cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordPlan records metrics for one optimization run.
func RecordPlan(duration time.Duration, status string) {
	PlanDuration.Observe(duration.Seconds())
	PlansTotal.WithLabelValues(status).Inc()
}

// RecordSolve records the engine solve duration.
func RecordSolve(duration time.Duration) {
	SolveDuration.Observe(duration.Seconds())
}

// RecordProviderFetch records metrics for an upstream provider call.
func RecordProviderFetch(provider, result string) {
	ProviderFetchesTotal.WithLabelValues(provider, result).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}
