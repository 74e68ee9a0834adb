package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dechico"

type Metrics struct {
	registry          *prometheus.Registry
	decisions         *prometheus.CounterVec
	cooldownRejected  prometheus.Counter
	matchesCreated    prometheus.Counter
	candidatesServed  prometheus.Histogram
	storageRetries    *prometheus.CounterVec
	cooldownIndexHits *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_recorded_total",
			Help:      "Swipe decisions recorded, by direction.",
		}, []string{"direction"}),
		cooldownRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_cooldown_rejected_total",
			Help:      "Swipe decisions rejected because the pair is still cooling down.",
		}),
		matchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Matches created.",
		}),
		candidatesServed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates_batch_size",
			Help:      "Number of candidates returned per selection.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		storageRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_retries_total",
			Help:      "Transient storage failures retried, by operation.",
		}, []string{"op"}),
		cooldownIndexHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cooldown_index_lookups_total",
			Help:      "Cooldown index lookups, by result.",
		}, []string{"result"}),
	}

	registry.MustRegister(
		m.decisions,
		m.cooldownRejected,
		m.matchesCreated,
		m.candidatesServed,
		m.storageRetries,
		m.cooldownIndexHits,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) DecisionRecorded(direction string) {
	m.decisions.WithLabelValues(direction).Inc()
}

func (m *Metrics) CooldownRejected() {
	m.cooldownRejected.Inc()
}

func (m *Metrics) MatchCreated() {
	m.matchesCreated.Inc()
}

func (m *Metrics) CandidatesServed(n int) {
	m.candidatesServed.Observe(float64(n))
}

func (m *Metrics) StorageRetry(op string) {
	m.storageRetries.WithLabelValues(op).Inc()
}

func (m *Metrics) CooldownIndexLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cooldownIndexHits.WithLabelValues(result).Inc()
}
