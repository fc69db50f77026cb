// Package metrics provides Prometheus metrics for the typerank leaderboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by the storage and login metrics.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeDenied  = "denied"
	OutcomeLimited = "limited"
)

// storageBuckets are tuned for local file and Redis round trips (milliseconds).
var storageBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500}

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Leaderboard
	scoresAdded   prometheus.Counter
	scoresDeleted prometheus.Counter
	totalScores   prometheus.Gauge
	rankLookups   *prometheus.CounterVec

	// Storage tiers
	storageOps       *prometheus.CounterVec
	storageLatency   *prometheus.HistogramVec
	storageFallbacks *prometheus.CounterVec

	// Admin
	loginAttempts *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "typerank",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.scoresAdded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_added_total",
		Help:      "Total number of score records created",
	})

	m.scoresDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_deleted_total",
		Help:      "Total number of delete requests processed (including no-ops)",
	})

	m.totalScores = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores",
		Help:      "Number of score records in the last loaded collection",
	})

	m.rankLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_lookups_total",
		Help:      "Rank lookups by result (found, not_found)",
	}, []string{"result"})

	m.storageOps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "storage",
		Name:      "operations_total",
		Help:      "Storage tier operations by tier, operation and outcome",
	}, []string{"tier", "op", "outcome"})

	m.storageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "storage",
		Name:      "latency_milliseconds",
		Help:      "Storage tier operation latency in milliseconds",
		Buckets:   storageBuckets,
	}, []string{"tier", "op"})

	m.storageFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "storage",
		Name:      "fallbacks_total",
		Help:      "Times an operation fell through from a failed tier to the next one",
	}, []string{"tier", "op"})

	m.loginAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "admin",
		Name:      "login_attempts_total",
		Help:      "Admin login attempts by outcome",
	}, []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "errors_total",
		Help:      "HTTP responses with status >= 400 by endpoint and error type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordScoreAdded increments the created scores counter.
func RecordScoreAdded() {
	globalManager.scoresAdded.Inc()
}

// RecordScoreDeleted increments the delete counter.
func RecordScoreDeleted() {
	globalManager.scoresDeleted.Inc()
}

// UpdateTotalScores sets the current collection size.
func UpdateTotalScores(count int) {
	globalManager.totalScores.Set(float64(count))
}

// RecordRankLookup counts a rank lookup.
func RecordRankLookup(found bool) {
	result := "not_found"
	if found {
		result = "found"
	}
	globalManager.rankLookups.WithLabelValues(result).Inc()
}

// RecordStorageOp records one tier operation and its latency.
func RecordStorageOp(tier, op, outcome string, latencyMs float64) {
	globalManager.storageOps.WithLabelValues(tier, op, outcome).Inc()
	globalManager.storageLatency.WithLabelValues(tier, op).Observe(latencyMs)
}

// RecordStorageFallback records a fall-through away from tier.
func RecordStorageFallback(tier, op string) {
	globalManager.storageFallbacks.WithLabelValues(tier, op).Inc()
}

// RecordLoginAttempt counts an admin login by outcome.
func RecordLoginAttempt(outcome string) {
	globalManager.loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest increments the request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
