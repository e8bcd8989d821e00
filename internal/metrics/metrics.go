// Package metrics exposes pipeline counters on a private Prometheus registry
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/manasakl/cowin-notify/internal/entities"
)

// Metrics counts fetch outcomes, delivery outcomes and runs.
type Metrics struct {
	registry     *prometheus.Registry
	handler      http.Handler
	fetchResults *prometheus.CounterVec
	deliveries   *prometheus.CounterVec
	runs         *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	fetchResults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cowin",
		Name:      "fetch_results_total",
		Help:      "Availability queries by outcome (rows, no_data, error)",
	}, []string{"outcome"})

	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cowin",
		Name:      "deliveries_total",
		Help:      "Notification deliveries by channel and outcome",
	}, []string{"channel", "outcome"})

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cowin",
		Name:      "runs_total",
		Help:      "Pipeline invocations by source",
	}, []string{"source"})

	registry.MustRegister(fetchResults, deliveries, runs)

	return &Metrics{
		registry:     registry,
		handler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		fetchResults: fetchResults,
		deliveries:   deliveries,
		runs:         runs,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// ObserveRun records one finished run. Safe to call on a nil receiver.
func (m *Metrics) ObserveRun(summary *entities.RunSummary) {
	if m == nil || summary == nil {
		return
	}
	m.runs.WithLabelValues(string(summary.Invocation.Source)).Inc()
	m.fetchResults.WithLabelValues(string(entities.DateRows)).Add(float64(summary.Counts.Rows))
	m.fetchResults.WithLabelValues(string(entities.DateNoData)).Add(float64(summary.Counts.NoData))
	m.fetchResults.WithLabelValues(string(entities.DateError)).Add(float64(summary.Counts.Errors))

	if summary.Dispatch == nil {
		return
	}
	for _, d := range summary.Dispatch.Deliveries {
		outcome := "sent"
		if !d.OK() {
			outcome = "failed"
		}
		m.deliveries.WithLabelValues(d.Channel, outcome).Inc()
	}
}
