package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	SourceCache    = "cache"
	SourceStore    = "store"
	SourceUpstream = "upstream"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the collectors of the product pipeline. Collectors are not
// registered until Register is called.
type Metrics struct {
	resolutions       *prometheus.CounterVec
	upstreamCalls     *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	cacheErrors       *prometheus.CounterVec
	persistConflicts  prometheus.Counter
	breakerTransition *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_resolutions_total",
				Help: "Resolved products by the tier that answered",
			},
			[]string{"source"},
		),
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_requests_total",
				Help: "Upstream API calls by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Upstream API call latency by endpoint",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
			},
			[]string{"endpoint"},
		),
		cacheErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_cache_errors_total",
				Help: "Cache operations that failed and were treated as misses",
			},
			[]string{"op"},
		),
		persistConflicts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "product_persist_conflicts_total",
				Help: "Concurrent first inserts resolved by re-reading the stored row",
			},
		),
		breakerTransition: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_breaker_transitions_total",
				Help: "Circuit breaker state changes by breaker and new state",
			},
			[]string{"breaker", "state"},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.resolutions,
		m.upstreamCalls,
		m.upstreamDuration,
		m.cacheErrors,
		m.persistConflicts,
		m.breakerTransition,
	}
}

func (m *Metrics) IncResolution(source string) {
	m.resolutions.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveUpstream(endpoint, outcome string, seconds float64) {
	m.upstreamCalls.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(seconds)
}

func (m *Metrics) IncCacheError(op string) {
	m.cacheErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) IncPersistConflict() {
	m.persistConflicts.Inc()
}

func (m *Metrics) IncBreakerTransition(name, state string) {
	m.breakerTransition.WithLabelValues(name, state).Inc()
}
