package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	vocaboliUpsertedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vocaboli_upserted_total",
			Help: "Total number of entries inserted or updated by bulk writes",
		},
	)

	vocaboliSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vocaboli_skipped_total",
			Help: "Total number of bulk entries skipped for an empty word",
		},
	)

	bulkRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocaboli_bulk_rejected_total",
			Help: "Total number of rejected bulk write requests",
		},
		[]string{"reason"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocaboli_cache_lookups_total",
			Help: "Total number of dictionary cache lookups",
		},
		[]string{"hit"},
	)
)

// MetricsMiddleware collects Prometheus metrics for every request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		c.Next()

		httpRequestsInFlight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordBulkWrite records a committed bulk write.
func RecordBulkWrite(upserted, skipped int) {
	vocaboliUpsertedTotal.Add(float64(upserted))
	vocaboliSkippedTotal.Add(float64(skipped))
}

// RecordBulkRejected records a bulk write refused before or during the
// transaction. reason is one of config, invalid, forbidden, empty, storage.
func RecordBulkRejected(reason string) {
	bulkRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordCacheLookup records a dictionary cache lookup.
func RecordCacheLookup(hit bool) {
	cacheLookupsTotal.WithLabelValues(strconv.FormatBool(hit)).Inc()
}
