package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webpress_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webpress_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Conversion metrics
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webpress_conversions_total",
			Help: "Total number of image conversions",
		},
		[]string{"status"}, // success, error
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webpress_conversion_duration_seconds",
			Help:    "Conversion duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"mode"}, // adaptive, fixed
	)

	ConversionBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webpress_conversion_bytes",
			Help:    "Conversion input/output bytes",
			Buckets: []float64{1024, 10240, 102400, 512000, 1048576, 5242880, 10485760},
		},
		[]string{"direction"}, // input, output
	)

	CodecInvocations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webpress_codec_invocations_total",
			Help: "Total number of single-shot codec encodes, including adaptive re-encodes",
		},
	)

	QualityUsed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webpress_quality_used",
			Help:    "Quality percent of returned encodes",
			Buckets: []float64{20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	BudgetMissed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webpress_budget_missed_total",
			Help: "Conversions that hit the quality floor while still over the size budget",
		},
	)

	// Rate limiting metrics
	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webpress_rate_limit_exceeded_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
		[]string{"ip_prefix"}, // first octet only, for privacy
	)

	// Concurrency metrics
	ConcurrentRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webpress_concurrent_requests",
			Help: "Current number of concurrent requests being processed",
		},
	)

	ConcurrencyLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webpress_concurrency_limit_exceeded_total",
			Help: "Total number of requests rejected due to concurrency limit",
		},
	)
)

// RecordRequest records an HTTP request.
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordConversion records one pipeline run.
func RecordConversion(status, mode string, duration float64, inputBytes, outputBytes int) {
	ConversionsTotal.WithLabelValues(status).Inc()
	ConversionDuration.WithLabelValues(mode).Observe(duration)
	ConversionBytes.WithLabelValues("input").Observe(float64(inputBytes))
	ConversionBytes.WithLabelValues("output").Observe(float64(outputBytes))
}

// RecordRateLimitExceeded records a rate limit rejection.
func RecordRateLimitExceeded(ipPrefix string) {
	RateLimitExceeded.WithLabelValues(ipPrefix).Inc()
}

// UpdateConcurrency updates the concurrent request gauge.
func UpdateConcurrency(count int) {
	ConcurrentRequests.Set(float64(count))
}

// RecordConcurrencyLimitExceeded records a concurrency limit rejection.
func RecordConcurrencyLimitExceeded() {
	ConcurrencyLimitExceeded.Inc()
}
