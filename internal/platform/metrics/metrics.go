// Package metrics owns the Prometheus registry served on /metrics
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "custintel"

// Metrics holds the collectors the serving path updates
type Metrics struct {
	reg     *prometheus.Registry
	unknown *prometheus.CounterVec
	latency *prometheus.HistogramVec
	reloads *prometheus.CounterVec
}

// New registers every collector on a fresh registry, plus the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		unknown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_category_total",
			Help:      "Categorical values at scoring time that the training vocabulary never saw.",
		}, []string{"model", "field"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_duration_seconds",
			Help:      "Time spent scoring one request, single or batch.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"model", "mode"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_loads_total",
			Help:      "Bundle load attempts by outcome.",
		}, []string{"model", "outcome"}),
	}
	m.reg.MustRegister(
		m.unknown, m.latency, m.reloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// UnknownCategory counts one unseen value; the value itself is not a label to keep cardinality bounded
func (m *Metrics) UnknownCategory(model, field, _ string) {
	m.unknown.WithLabelValues(model, field).Inc()
}

// ObserveScore records how long a scoring call took; mode is single or batch
func (m *Metrics) ObserveScore(model, mode string, d time.Duration) {
	m.latency.WithLabelValues(model, mode).Observe(d.Seconds())
}

// Loaded counts a bundle load attempt
func (m *Metrics) Loaded(model string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.reloads.WithLabelValues(model, outcome).Inc()
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
