package prometheus

import (
	"time"

	"github.com/LoayAhmed23/recipe-app-api/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.CounterVec
	ActiveTokensGauge   prometheus.Gauge

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Domain operation metrics
	RecipeOperationsCounter    prometheus.CounterVec
	AttributeOperationsCounter prometheus.CounterVec
	ImageUploadsCounter        prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of token requests",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"error_type"},
	)

	ActiveTokensGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_active_tokens",
			Help: "Number of issued bearer tokens",
		},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	RecipeOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_recipe_operations_total",
			Help: "Total number of recipe operations",
		},
		[]string{"operation"},
	)

	AttributeOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_attribute_operations_total",
			Help: "Total number of tag and ingredient operations",
		},
		[]string{"resource", "operation"},
	)

	ImageUploadsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_image_uploads_total",
			Help: "Total number of image uploads",
		},
		[]string{"target", "result"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthError increments the counter for a class of authentication failure
func RecordAuthError(errorType string) {
	AuthErrorsCounter.WithLabelValues(errorType).Inc()
}

// RecordRecipeOperation increments the counter for recipe operations
func RecordRecipeOperation(operation string) {
	RecipeOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordAttributeOperation increments the counter for tag/ingredient operations
func RecordAttributeOperation(resource, operation string) {
	AttributeOperationsCounter.WithLabelValues(resource, operation).Inc()
}

// RecordImageUpload increments the counter for image uploads
func RecordImageUpload(target, result string) {
	ImageUploadsCounter.WithLabelValues(target, result).Inc()
}
