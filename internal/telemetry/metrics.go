// Package telemetry exposes Prometheus metrics for the aggregation engine.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/honeycarbs/offerscout/internal/domain"
)

const namespace = "offerscout"

// Metrics holds every collector on a private registry
type Metrics struct {
	registry *prometheus.Registry

	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	Searches         *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Provider calls by source and outcome (ok, not_configured, error)",
		}, []string{"source", "outcome"}),

		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Time spent in one provider call",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"source"}),

		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_lookups_total",
			Help:      "Persistent search cache lookups by result (hit, miss)",
		}, []string{"result"}),

		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Aggregated searches by outcome",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.ProviderRequests,
		m.ProviderLatency,
		m.CacheLookups,
		m.Searches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveProvider(source domain.Source, outcome string, took time.Duration) {
	m.ProviderRequests.WithLabelValues(string(source), outcome).Inc()
	m.ProviderLatency.WithLabelValues(string(source)).Observe(took.Seconds())
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSearch(outcome string) {
	m.Searches.WithLabelValues(outcome).Inc()
}

// Handler serves the registry for /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
