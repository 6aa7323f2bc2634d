// Package metrics defines the Prometheus collectors for city profile runs and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cityinfo/internal/models"
)

const namespace = "cityinfo"

// Source outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeMissing = "missing"
)

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	SourceResultsTotal *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	StageErrorsTotal   *prometheus.CounterVec
	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	GeneratedTotal     prometheus.Counter
}

// New creates all collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		SourceResultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_results_total",
				Help:      "Source adapter results by source and outcome (ok, error, missing).",
			},
			[]string{"source", "outcome"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Workflow stage latency in seconds.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		StageErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_errors_total",
				Help:      "Workflow stages that reported an error.",
			},
			[]string{"stage"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Completed workflow runs by result (success, failed).",
			},
			[]string{"result"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "End-to-end workflow latency in seconds.",
				Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
			},
		),
		GeneratedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profiles_generated_total",
				Help:      "Profiles whose every section came from the text generator.",
			},
		),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SourceResultsTotal,
		m.StageDuration,
		m.StageErrorsTotal,
		m.RunsTotal,
		m.RunDuration,
		m.GeneratedTotal,
	)
	return m
}

// ObserveStage has the shape of enrich.Observer.
func (m *Metrics) ObserveStage(stage string, elapsed time.Duration, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if err != nil {
		m.StageErrorsTotal.WithLabelValues(stage).Inc()
	}
}

// RecordRun counts the run and the outcome of every source it collected.
func (m *Metrics) RecordRun(state *models.PipelineState, elapsed time.Duration, runErr error) {
	m.RunDuration.Observe(elapsed.Seconds())
	if runErr != nil {
		m.RunsTotal.WithLabelValues("failed").Inc()
	} else {
		m.RunsTotal.WithLabelValues("success").Inc()
	}
	if state == nil {
		return
	}

	record := func(source string, present bool, errMsg string) {
		switch {
		case !present:
			m.SourceResultsTotal.WithLabelValues(source, OutcomeMissing).Inc()
		case errMsg != "":
			m.SourceResultsTotal.WithLabelValues(source, OutcomeError).Inc()
		default:
			m.SourceResultsTotal.WithLabelValues(source, OutcomeOK).Inc()
		}
	}
	errs := state.SourceErrors()
	record(models.SourceWikipedia, state.Wikipedia != nil, errs[models.SourceWikipedia])
	record(models.SourceGeoNames, state.GeoNames != nil, errs[models.SourceGeoNames])
	record(models.SourceOpenStreetMap, state.OSM != nil, errs[models.SourceOpenStreetMap])
	record(models.SourceWeather, state.Weather != nil, errs[models.SourceWeather])

	if state.Profile != nil && state.Profile.Generated {
		m.GeneratedTotal.Inc()
	}
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
