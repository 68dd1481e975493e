// Package metrics provides Prometheus metrics for the SimuMatch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the SimuMatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Matching metrics
	recommendationsServed *prometheus.CounterVec
	scoringLatency        *prometheus.HistogramVec
	profilesSummarized    prometheus.Counter
	profileRecords        prometheus.Histogram
	schemaMismatches      prometheus.Counter
	athleteResolutions    *prometheus.CounterVec

	// Context metrics, set once at startup
	catalogSize   prometheus.Gauge
	modelLoaded   prometheus.Gauge
	embeddingRows *prometheus.GaugeVec

	// Repository metrics
	repositoryQueryLatency *prometheus.HistogramVec
	breakerState           *prometheus.GaugeVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "simumatch",
		subsystem:        "matcher",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.recommendationsServed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "recommendations_total",
		Help:        "Total number of ranked recommendation lists served",
		ConstLabels: m.constLabels,
	}, []string{"strategy"})

	m.scoringLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scoring_latency_milliseconds",
		Help:        "Time spent scoring and ranking the catalog for one request",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"strategy"})

	m.profilesSummarized = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "profiles_summarized_total",
		Help:        "Total number of fitness profiles computed",
		ConstLabels: m.constLabels,
	})

	m.profileRecords = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "profile_window_records",
		Help:        "Number of daily records inside the profile window",
		Buckets:     []float64{1, 3, 7, 14, 28, 56, 90, 180, 365},
		ConstLabels: m.constLabels,
	})

	m.schemaMismatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feature_schema_mismatches_total",
		Help:        "Learned scoring requests refused because of a feature schema mismatch",
		ConstLabels: m.constLabels,
	})

	m.athleteResolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "athlete_resolutions_total",
		Help:        "Athlete name lookups on the embedding path by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.catalogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "catalog_events",
		Help:        "Number of events in the loaded catalog",
		ConstLabels: m.constLabels,
	})

	m.modelLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "learned_model_loaded",
		Help:        "1 when a learned model is loaded, 0 otherwise",
		ConstLabels: m.constLabels,
	})

	m.embeddingRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "embedding_rows",
		Help:        "Rows in each embedding table after deduplication",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.repositoryQueryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "repository_query_latency_milliseconds",
		Help:        "Collaborator load latency in milliseconds",
		Buckets:     []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		ConstLabels: m.constLabels,
	}, []string{"source", "operation"})

	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "circuit_breaker_state",
		Help:        "Circuit breaker state: 0 closed, 1 half-open, 2 open",
		ConstLabels: m.constLabels,
	}, []string{"name"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request duration in seconds",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Total errors by component and error type",
		ConstLabels: m.constLabels,
	}, []string{"component", "error_type"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Total errors by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	})
}

// RecordRecommendation counts one served recommendation list.
func RecordRecommendation(strategy string) {
	globalManager.recommendationsServed.WithLabelValues(strategy).Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(strategy string, latencyMs float64) {
	globalManager.scoringLatency.WithLabelValues(strategy).Observe(latencyMs)
}

// RecordProfileSummary counts a computed profile and its window size.
func RecordProfileSummary(recordsInWindow int) {
	globalManager.profilesSummarized.Inc()
	globalManager.profileRecords.Observe(float64(recordsInWindow))
}

// RecordSchemaMismatch increments the feature schema mismatch counter.
func RecordSchemaMismatch() {
	globalManager.schemaMismatches.Inc()
}

// RecordAthleteResolution counts a name lookup, e.g. "found" or "not_found".
func RecordAthleteResolution(outcome string) {
	globalManager.athleteResolutions.WithLabelValues(outcome).Inc()
}

// UpdateCatalogSize sets the number of catalog events.
func UpdateCatalogSize(count int) {
	globalManager.catalogSize.Set(float64(count))
}

// UpdateModelLoaded records whether a learned model is available.
func UpdateModelLoaded(loaded bool) {
	v := 0.0
	if loaded {
		v = 1
	}
	globalManager.modelLoaded.Set(v)
}

// UpdateEmbeddingRows sets the row count of an embedding table.
func UpdateEmbeddingRows(kind string, rows int) {
	globalManager.embeddingRows.WithLabelValues(kind).Set(float64(rows))
}

// RecordRepositoryQueryLatency records a collaborator load latency.
func RecordRepositoryQueryLatency(source, operation string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(source, operation).Observe(latencyMs)
}

// UpdateBreakerState sets the state of a named circuit breaker.
func UpdateBreakerState(name string, state float64) {
	globalManager.breakerState.WithLabelValues(name).Set(state)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
