package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// ForecastRunsTotal counts completed forecast computations by outcome.
	ForecastRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forecast_runs_total",
		Help: "Total number of forecast computations",
	}, []string{"outcome"})

	// ForecastRowsReturned observes result sizes per forecast request.
	ForecastRowsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forecast_rows_returned",
		Help:    "Number of rows returned per forecast request",
		Buckets: prometheus.ExponentialBuckets(10, 10, 6),
	})
)

// Metrics records per-request counters and latency histograms using the
// route template as the path label to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
