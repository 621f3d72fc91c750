// Package metrics provides Prometheus metrics for the rankdb service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric the service records.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Mutation metrics.
	registrations   prometheus.Counter
	unregistrations prometheus.Counter
	rollbacks       prometheus.Counter
	rollbackSteps   prometheus.Histogram

	// Query metrics.
	rankQueries prometheus.Counter
	listQueries prometheus.Counter

	// State gauges.
	players      prometheus.Gauge
	historyDepth prometheus.Gauge

	// Latency histograms, in milliseconds.
	mutationLatency prometheus.Histogram
	queryLatency    prometheus.Histogram

	// Integrity.
	storeCorruptions prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager builds a manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rankdb",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.registrations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registrations_total",
		Help:      "Total number of player registrations.",
	})
	m.unregistrations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unregistrations_total",
		Help:      "Total number of player unregistrations.",
	})
	m.rollbacks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rollbacks_total",
		Help:      "Total number of rollback operations.",
	})
	m.rollbackSteps = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rollback_steps",
		Help:      "Distribution of requested rollback depths.",
		Buckets:   []float64{1, 2, 5, 10, 50, 100, 1000},
	})
	m.rankQueries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_queries_total",
		Help:      "Total number of rank queries.",
	})
	m.listQueries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "list_queries_total",
		Help:      "Total number of full listings.",
	})
	m.players = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players",
		Help:      "Players currently registered.",
	})
	m.historyDepth = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_depth",
		Help:      "Stored versions, the initial empty one included.",
	})
	m.mutationLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "mutation_duration_ms",
		Help:      "Latency of register/unregister/rollback in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.queryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_duration_ms",
		Help:      "Latency of rank/list queries in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.storeCorruptions = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_corruptions_total",
		Help:      "Structural validation failures detected after mutations.",
	})
	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// Global helpers, recorded on the package-level manager.

func RecordRegistration()   { globalManager.registrations.Inc() }
func RecordUnregistration() { globalManager.unregistrations.Inc() }

func RecordRollback(steps int) {
	globalManager.rollbacks.Inc()
	globalManager.rollbackSteps.Observe(float64(steps))
}

func RecordRankQuery() { globalManager.rankQueries.Inc() }
func RecordListQuery() { globalManager.listQueries.Inc() }

func UpdatePlayers(count int)      { globalManager.players.Set(float64(count)) }
func UpdateHistoryDepth(depth int) { globalManager.historyDepth.Set(float64(depth)) }

func RecordMutationLatency(ms float64) { globalManager.mutationLatency.Observe(ms) }
func RecordQueryLatency(ms float64)    { globalManager.queryLatency.Observe(ms) }

func RecordStoreCorruption() { globalManager.storeCorruptions.Inc() }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// GetRegistry returns the registry backing the global manager, for metric
// exposition.
func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}
