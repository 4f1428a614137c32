package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the audit engine. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AuditsTotal        prometheus.Counter
	HealthScore        prometheus.Histogram
	CleaningStepsTotal *prometheus.CounterVec
	DatasetLoadsTotal  *prometheus.CounterVec
}

// New creates the collectors on a private registry, so several instances
// can coexist in one process (tests, multiple servers).
//
// Metrics:
//   - crashaudit_audits_total - audits run
//   - crashaudit_health_score - distribution of health scores
//   - crashaudit_cleaning_steps_total{step,status} - cleaning steps by outcome
//   - crashaudit_dataset_loads_total{result} - dataset loads by result
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AuditsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "crashaudit_audits_total",
			Help: "Total number of audits run",
		}),
		HealthScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "crashaudit_health_score",
			Help:    "Health score of audited datasets",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		CleaningStepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crashaudit_cleaning_steps_total",
				Help: "Total number of cleaning steps by step and status",
			},
			[]string{"step", "status"},
		),
		DatasetLoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crashaudit_dataset_loads_total",
				Help: "Total number of dataset loads by result",
			},
			[]string{"result"}, // "ok" or "error"
		),
	}
}

// RecordAudit counts one audit and observes its score.
func (m *Metrics) RecordAudit(score int) {
	if m == nil {
		return
	}
	m.AuditsTotal.Inc()
	m.HealthScore.Observe(float64(score))
}

// RecordCleaningStep counts one cleaning step outcome.
func (m *Metrics) RecordCleaningStep(step, status string) {
	if m == nil {
		return
	}
	m.CleaningStepsTotal.WithLabelValues(step, status).Inc()
}

// RecordLoad counts one dataset load.
func (m *Metrics) RecordLoad(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.DatasetLoadsTotal.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
