// Package metrics provides Prometheus metrics for the medb importer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by medb.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Import pipeline
	recordsImported *prometheus.CounterVec
	measurements    *prometheus.CounterVec
	seriesCreated   prometheus.Counter
	importErrors    *prometheus.CounterVec
	importDuration  prometheus.Histogram
	importRuns      *prometheus.CounterVec

	// Store
	storeWriteLatency prometheus.Histogram
	storeSeries       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	customRegistry.MustRegister(collectors.NewBuildInfoCollector())
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "medb",
		subsystem:        "importer",
		histogramBuckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000, 120000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.recordsImported = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_imported_total",
		Help:        "Raw records normalized, by importer",
		ConstLabels: m.constLabels,
	}, []string{"importer"})

	m.measurements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "measurements_total",
		Help:        "Measurements appended to series, by importer",
		ConstLabels: m.constLabels,
	}, []string{"importer"})

	m.seriesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "series_created_total",
		Help:        "Series created across import runs",
		ConstLabels: m.constLabels,
	})

	m.importErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "import_errors_total",
		Help:        "Import runs aborted, by error kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.importDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "import_duration_milliseconds",
		Help:        "Wall time of a whole import run in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.importRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "import_runs_total",
		Help:        "Import runs, by final status",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.storeWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_write_latency_milliseconds",
		Help:        "Time to persist a series collection in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.storeSeries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_series",
		Help:        "Series currently held by the store",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordRecordsImported adds n normalized records for importer.
func RecordRecordsImported(importer string, n int) {
	globalManager.recordsImported.WithLabelValues(importer).Add(float64(n))
}

// RecordMeasurements adds n appended measurements for importer.
func RecordMeasurements(importer string, n int) {
	globalManager.measurements.WithLabelValues(importer).Add(float64(n))
}

// RecordSeriesCreated adds n newly created series.
func RecordSeriesCreated(n int) {
	globalManager.seriesCreated.Add(float64(n))
}

// RecordImportError counts an aborted run by error kind.
func RecordImportError(kind string) {
	globalManager.importErrors.WithLabelValues(kind).Inc()
}

// RecordImportDuration records the duration of one run in milliseconds.
func RecordImportDuration(durationMs float64) {
	globalManager.importDuration.Observe(durationMs)
}

// RecordImportRun counts a finished run by status.
func RecordImportRun(status string) {
	globalManager.importRuns.WithLabelValues(status).Inc()
}

// RecordStoreWriteLatency records store write latency in milliseconds.
func RecordStoreWriteLatency(latencyMs float64) {
	globalManager.storeWriteLatency.Observe(latencyMs)
}

// UpdateStoreSeries sets the number of series held by the store.
func UpdateStoreSeries(count int) {
	globalManager.storeSeries.Set(float64(count))
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
