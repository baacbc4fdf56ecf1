package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service, registered on a
// private registry so tests can create independent instances.
type Metrics struct {
	registry *prometheus.Registry

	// UpdateRuns counts completed regeneration runs by trigger and outcome.
	// Outcomes: "ok", "error", "timeout", "busy".
	UpdateRuns *prometheus.CounterVec

	// UpdateDuration observes wall-clock duration of completed runs.
	UpdateDuration prometheus.Histogram

	// UpdateRunning is 1 while a regeneration is in flight.
	UpdateRunning prometheus.Gauge

	// SchedulerChecks counts periodic window evaluations by result.
	// Results: "triggered", "outside_window", "busy".
	SchedulerChecks *prometheus.CounterVec

	// SnapshotLoads counts snapshot reads by file and outcome.
	// Outcomes: "ok", "absent".
	SnapshotLoads *prometheus.CounterVec

	// HTTPRequests counts API requests by route and status code.
	HTTPRequests *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		UpdateRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pennyb3_update_runs_total",
				Help: "Completed snapshot regeneration runs by trigger and outcome.",
			},
			[]string{"trigger", "outcome"},
		),

		UpdateDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pennyb3_update_duration_seconds",
				Help:    "Wall-clock duration of snapshot regeneration runs.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),

		UpdateRunning: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pennyb3_update_running",
				Help: "1 while a snapshot regeneration is in flight.",
			},
		),

		SchedulerChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pennyb3_scheduler_checks_total",
				Help: "Trading-window evaluations by result.",
			},
			[]string{"result"},
		),

		SnapshotLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pennyb3_snapshot_loads_total",
				Help: "Snapshot file reads by file and outcome.",
			},
			[]string{"file", "outcome"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pennyb3_http_requests_total",
				Help: "API requests by route and status code.",
			},
			[]string{"route", "code"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.UpdateRuns,
		m.UpdateDuration,
		m.UpdateRunning,
		m.SchedulerChecks,
		m.SnapshotLoads,
		m.HTTPRequests,
	)

	return m
}

// Handler returns the HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
