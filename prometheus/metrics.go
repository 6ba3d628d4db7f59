package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MatrixDriver/neuromem/pkg/config"
)

// Counter metrics
var (
	// Tenant registration counter
	TenantRegistrationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neuromem_tenant_registrations_total",
			Help: "Total number of tenant registrations",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuromem_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Authentication error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuromem_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "missing_header", "malformed_header", "unknown_key", etc.
	)

	// Preference operation counter
	PreferenceOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuromem_preference_operations_total",
			Help: "Total number of preference operations",
		},
		[]string{"operation"}, // operation can be "set", "get", "list", "delete"
	)

	// Memory operation counter
	MemoryOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuromem_memory_operations_total",
			Help: "Total number of memory operations",
		},
		[]string{"operation"}, // operation can be "add", "search", "overview"
	)

	// Embedding provider error counter
	EmbeddingErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "neuromem_embedding_errors_total",
			Help: "Total number of failed embedding provider calls",
		},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuromem_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuromem_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)

	// Embedding call duration
	EmbeddingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "neuromem_embedding_duration_seconds",
			Help:    "Duration of external embedding provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuromem_info",
			Help: "Information about the memory service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(TenantRegistrationCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(PreferenceOperationCounter)
	prometheus.MustRegister(MemoryOperationCounter)
	prometheus.MustRegister(EmbeddingErrorCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(EmbeddingDuration)

	prometheus.MustRegister(InfoGauge)
}

// InitMetrics sets static metric values from configuration
func InitMetrics(cfg *config.Config) {
	InfoGauge.With(prometheus.Labels{"version": "2.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// TrackEmbeddingCall measures embedding provider call durations
func TrackEmbeddingCall() func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		EmbeddingDuration.Observe(time.Since(startTime).Seconds())
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordPreferenceOperation records a preference operation
func RecordPreferenceOperation(operation string) {
	PreferenceOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordMemoryOperation records a memory operation
func RecordMemoryOperation(operation string) {
	MemoryOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
