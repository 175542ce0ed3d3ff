// Package metrics provides Prometheus metrics for the guild leaderboard
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Fetch pipeline
	logEntriesFetched prometheus.Counter
	logEntriesMerged  prometheus.Counter
	logEntriesTotal   prometheus.Gauge
	membersTotal      prometheus.Gauge
	fetchDuration     prometheus.Histogram

	// Pricing oracle
	oracleRequests      prometheus.Counter
	oracleErrors        prometheus.Counter
	vendorFallbacks     prometheus.Counter
	itemsPriced         prometheus.Gauge
	oracleBatchDuration prometheus.Histogram

	// Compute pipeline
	entriesScored   prometheus.Counter
	computeDuration prometheus.Histogram
	accountsTracked *prometheus.GaugeVec
	leaderboardSize *prometheus.GaugeVec

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "guildboard",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.logEntriesFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "log_entries_fetched_total",
		Help:      "Total number of guild log entries returned by the API",
	})

	m.logEntriesMerged = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "log_entries_merged_total",
		Help:      "Total number of new entries merged into the stored log after dedup",
	})

	m.logEntriesTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "log_entries_total",
		Help:      "Number of entries currently held in the stored guild log",
	})

	m.membersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "members_total",
		Help:      "Number of current guild members in the last snapshot",
	})

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_duration_milliseconds",
		Help:      "Duration of one full fetch run in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.oracleRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "oracle_requests_total",
		Help:      "Total number of pricing oracle batch requests",
	})

	m.oracleErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "oracle_errors_total",
		Help:      "Total number of failed pricing oracle batch requests",
	})

	m.vendorFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "oracle_vendor_fallbacks_total",
		Help:      "Total number of items priced from vendor value instead of the trading post",
	})

	m.itemsPriced = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "oracle_items_priced",
		Help:      "Number of items in the last assembled price table",
	})

	m.oracleBatchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "oracle_batch_duration_milliseconds",
		Help:      "Duration of one pricing oracle batch request in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.entriesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entries_scored_total",
		Help:      "Total number of windowed log entries fed to the aggregator",
	})

	m.computeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "compute_duration_milliseconds",
		Help:      "Duration of one full compute run in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.accountsTracked = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "accounts_tracked",
			Help:      "Number of user accounts produced by the last aggregation, per board",
		},
		[]string{"board"},
	)

	m.leaderboardSize = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "leaderboard_size",
			Help:      "Number of entries in the last published leaderboard, per board",
		},
		[]string{"board"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordLogEntriesFetched adds to the fetched entries counter.
func RecordLogEntriesFetched(n int) {
	globalManager.logEntriesFetched.Add(float64(n))
}

// RecordLogEntriesMerged adds to the merged entries counter.
func RecordLogEntriesMerged(n int) {
	globalManager.logEntriesMerged.Add(float64(n))
}

// SetLogEntriesTotal sets the stored log size gauge.
func SetLogEntriesTotal(n int) {
	globalManager.logEntriesTotal.Set(float64(n))
}

// SetMembersTotal sets the member count gauge.
func SetMembersTotal(n int) {
	globalManager.membersTotal.Set(float64(n))
}

// ObserveFetchDuration records the duration of a fetch run.
func ObserveFetchDuration(ms float64) {
	globalManager.fetchDuration.Observe(ms)
}

// RecordOracleRequest increments the oracle request counter.
func RecordOracleRequest() {
	globalManager.oracleRequests.Inc()
}

// RecordOracleError increments the oracle error counter.
func RecordOracleError() {
	globalManager.oracleErrors.Inc()
}

// RecordVendorFallback increments the vendor fallback counter.
func RecordVendorFallback() {
	globalManager.vendorFallbacks.Inc()
}

// SetItemsPriced sets the price table size gauge.
func SetItemsPriced(n int) {
	globalManager.itemsPriced.Set(float64(n))
}

// ObserveOracleBatchDuration records the duration of one oracle batch.
func ObserveOracleBatchDuration(ms float64) {
	globalManager.oracleBatchDuration.Observe(ms)
}

// RecordEntriesScored adds to the scored entries counter.
func RecordEntriesScored(n int) {
	globalManager.entriesScored.Add(float64(n))
}

// ObserveComputeDuration records the duration of a compute run.
func ObserveComputeDuration(ms float64) {
	globalManager.computeDuration.Observe(ms)
}

// SetAccountsTracked sets the per-board account count gauge.
func SetAccountsTracked(board string, n int) {
	globalManager.accountsTracked.WithLabelValues(board).Set(float64(n))
}

// SetLeaderboardSize sets the per-board leaderboard size gauge.
func SetLeaderboardSize(board string, n int) {
	globalManager.leaderboardSize.WithLabelValues(board).Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
