// Package metrics holds the Prometheus instruments of the intake service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	Transitions       *prometheus.CounterVec
	OracleDuration    *prometheus.HistogramVec
	BusyRejections    prometheus.Counter
	CasesMaterialized *prometheus.CounterVec
	SessionsSwept     prometheus.Counter
	EventsRelayed     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_transitions_total",
				Help: "Session transitions by source and target state",
			},
			[]string{"from", "to"},
		),
		OracleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_oracle_duration_seconds",
				Help:    "Duration of extraction oracle calls",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
			[]string{"outcome"},
		),
		BusyRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intake_busy_rejections_total",
			Help: "Calls rejected because another call held the session",
		}),
		CasesMaterialized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_cases_materialized_total",
				Help: "Cases created from completed sessions",
			},
			[]string{"issue_type"},
		),
		SessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intake_sessions_swept_total",
			Help: "Idle sessions removed by the sweeper",
		}),
		EventsRelayed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_events_relayed_total",
				Help: "Domain events handled by the relay",
			},
			[]string{"type", "outcome"},
		),
	}
	reg.MustRegister(
		m.Transitions,
		m.OracleDuration,
		m.BusyRejections,
		m.CasesMaterialized,
		m.SessionsSwept,
		m.EventsRelayed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveTransition(from, to intake.State) {
	if from == "" {
		from = "NEW"
	}
	m.Transitions.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) ObserveOracle(d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.OracleDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
