package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Simulation outcomes used as label values.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Cache lookup results used as label values.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Scoring
	simulations       *prometheus.CounterVec
	simulationLatency prometheus.Histogram
	readinessScore    prometheus.Histogram
	batchSize         prometheus.Histogram
	offerComparisons  prometheus.Counter

	// Corpus
	corpusLoadLatency prometheus.Histogram
	corpusLoadErrors  prometheus.Counter
	corpusRecords     prometheus.Gauge
	marketCache       *prometheus.CounterVec

	// History persistence
	historyQueueSize prometheus.Gauge
	historyDropped   prometheus.Counter
	historyPersisted *prometheus.CounterVec
	historyFailures  *prometheus.CounterVec
	workerCount      prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
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
		namespace:        "internsim",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		customLabels:     make(map[string]string),
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
	labels := prometheus.Labels(m.customLabels)

	m.simulations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "simulations_total",
		Help:        "Total number of simulations by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.simulationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "simulation_latency_milliseconds",
		Help:        "End-to-end simulation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.readinessScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "final_readiness",
		Help:        "Distribution of boosted readiness scores",
		Buckets:     prometheus.LinearBuckets(10, 10, 10),
		ConstLabels: labels,
	})

	m.batchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "batch_size",
		Help:        "Number of candidates per batch simulation",
		Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		ConstLabels: labels,
	})

	m.offerComparisons = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "offer_comparisons_total",
		Help:        "Total number of offer comparisons",
		ConstLabels: labels,
	})

	m.corpusLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "corpus",
		Name:        "load_latency_milliseconds",
		Help:        "Latency of corpus snapshot loads in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.corpusLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "corpus",
		Name:        "load_errors_total",
		Help:        "Total number of failed corpus snapshot loads",
		ConstLabels: labels,
	})

	m.corpusRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "corpus",
		Name:        "records",
		Help:        "Number of opportunity records in the last loaded snapshot",
		ConstLabels: labels,
	})

	m.marketCache = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "corpus",
		Name:        "market_cache_requests_total",
		Help:        "Market snapshot cache lookups by result",
		ConstLabels: labels,
	}, []string{"result"})

	m.historyQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "history",
		Name:        "queue_size",
		Help:        "Entries waiting to be persisted",
		ConstLabels: labels,
	})

	m.historyDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "history",
		Name:        "dropped_total",
		Help:        "Entries dropped because the persistence queue was full",
		ConstLabels: labels,
	})

	m.historyPersisted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "history",
		Name:        "persisted_total",
		Help:        "Entries written to the history sink by kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.historyFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "history",
		Name:        "failures_total",
		Help:        "Failed history sink writes by kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "history",
		Name:        "workers",
		Help:        "Number of running persistence workers",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "Total number of HTTP requests",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_seconds",
		Help:        "HTTP request duration in seconds",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Total number of errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})
}

// RecordSimulation counts a simulation outcome and its latency.
func (m *Manager) RecordSimulation(outcome string, latencyMs float64) error {
	if !m.enabled {
		return nil
	}
	switch outcome {
	case OutcomeOK, OutcomeInvalid, OutcomeUnavailable, OutcomeError:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
	m.simulations.WithLabelValues(outcome).Inc()
	m.simulationLatency.Observe(latencyMs)
	return nil
}

// ObserveReadiness records a boosted readiness score.
func (m *Manager) ObserveReadiness(score int) {
	if m.enabled {
		m.readinessScore.Observe(float64(score))
	}
}

// ObserveBatchSize records the size of a batch simulation.
func (m *Manager) ObserveBatchSize(n int) {
	if m.enabled {
		m.batchSize.Observe(float64(n))
	}
}

// RecordOfferComparison increments the offer comparison counter.
func (m *Manager) RecordOfferComparison() {
	if m.enabled {
		m.offerComparisons.Inc()
	}
}

// RecordCorpusLoad records a successful snapshot load.
func (m *Manager) RecordCorpusLoad(latencyMs float64, records int) {
	if !m.enabled {
		return
	}
	m.corpusLoadLatency.Observe(latencyMs)
	m.corpusRecords.Set(float64(records))
}

// RecordCorpusLoadError increments the failed snapshot load counter.
func (m *Manager) RecordCorpusLoadError() {
	if m.enabled {
		m.corpusLoadErrors.Inc()
	}
}

// RecordMarketCache counts a market cache lookup result.
func (m *Manager) RecordMarketCache(result string) {
	if m.enabled {
		m.marketCache.WithLabelValues(result).Inc()
	}
}

// UpdateHistoryQueueSize sets the persistence queue depth.
func (m *Manager) UpdateHistoryQueueSize(size int) {
	if m.enabled {
		m.historyQueueSize.Set(float64(size))
	}
}

// RecordHistoryDropped increments the dropped entries counter.
func (m *Manager) RecordHistoryDropped() {
	if m.enabled {
		m.historyDropped.Inc()
	}
}

// RecordHistoryPersisted counts a successful sink write.
func (m *Manager) RecordHistoryPersisted(kind string) {
	if m.enabled {
		m.historyPersisted.WithLabelValues(kind).Inc()
	}
}

// RecordHistoryFailure counts a failed sink write.
func (m *Manager) RecordHistoryFailure(kind string) {
	if m.enabled {
		m.historyFailures.WithLabelValues(kind).Inc()
	}
}

// UpdateWorkerCount sets the number of persistence workers.
func (m *Manager) UpdateWorkerCount(n int) {
	if m.enabled {
		m.workerCount.Set(float64(n))
	}
}

// RecordHTTPRequest records an HTTP request and its duration in seconds.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// Package-level helpers over the global manager.

func RecordSimulation(outcome string, latencyMs float64) error {
	return globalManager.RecordSimulation(outcome, latencyMs)
}
func ObserveReadiness(score int) { globalManager.ObserveReadiness(score) }
func ObserveBatchSize(n int)     { globalManager.ObserveBatchSize(n) }
func RecordOfferComparison()     { globalManager.RecordOfferComparison() }
func RecordCorpusLoad(latencyMs float64, records int) {
	globalManager.RecordCorpusLoad(latencyMs, records)
}
func RecordCorpusLoadError()             { globalManager.RecordCorpusLoadError() }
func RecordMarketCache(result string)    { globalManager.RecordMarketCache(result) }
func UpdateHistoryQueueSize(size int)    { globalManager.UpdateHistoryQueueSize(size) }
func RecordHistoryDropped()              { globalManager.RecordHistoryDropped() }
func RecordHistoryPersisted(kind string) { globalManager.RecordHistoryPersisted(kind) }
func RecordHistoryFailure(kind string)   { globalManager.RecordHistoryFailure(kind) }
func UpdateWorkerCount(n int)            { globalManager.UpdateWorkerCount(n) }
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}
func RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
