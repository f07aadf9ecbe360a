package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genc_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "genc_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Gemini Metrics
	GeminiCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genc_gemini_calls_total",
			Help: "Total number of Gemini API calls",
		},
		[]string{"operation", "status"},
	)

	GeminiCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "genc_gemini_call_duration_seconds",
			Help:    "Gemini API call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2 minutes
		},
		[]string{"operation"},
	)

	// Transcription Metrics
	TranscriptionJobsEnqueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "genc_transcription_jobs_enqueued_total",
			Help: "Total number of transcription jobs enqueued",
		},
	)

	TranscriptionJobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genc_transcription_jobs_processed_total",
			Help: "Total number of transcription jobs processed",
		},
		[]string{"status"},
	)

	TranscriptionQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "genc_transcription_queue_depth",
			Help: "Number of transcription jobs waiting in queue",
		},
	)

	// Credit Metrics
	CreditsChargedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genc_credits_charged_total",
			Help: "Total credits charged, by action",
		},
		[]string{"action"},
	)

	CreditDenialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "genc_credit_denials_total",
			Help: "Total requests rejected for insufficient credits",
		},
	)

	// Storage Metrics
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genc_storage_operations_total",
			Help: "Total number of storage operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genc_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genc_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Webhook Metrics
	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genc_webhook_deliveries_total",
			Help: "Total number of webhook delivery attempts",
		},
		[]string{"status"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genc_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordGeminiCall records a Gemini API call
func RecordGeminiCall(operation, status string, duration float64) {
	GeminiCallsTotal.WithLabelValues(operation, status).Inc()
	GeminiCallDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCreditCharge records a successful credit charge
func RecordCreditCharge(action string, cost int) {
	CreditsChargedTotal.WithLabelValues(action).Add(float64(cost))
}

// RecordStorageOperation records an object storage operation
func RecordStorageOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordWebhookDelivery records a webhook delivery attempt
func RecordWebhookDelivery(status string) {
	WebhookDeliveriesTotal.WithLabelValues(status).Inc()
}

// RecordCacheAccess records cache hit or miss
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(cacheType).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(cacheType).Inc()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
