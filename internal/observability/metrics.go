package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "calls_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for dashboard runs.
type Metrics struct {
	RunsTotal   *prometheus.CounterVec // labels: outcome={success,error}
	RunDuration prometheus.Histogram

	RowsLoaded    *prometheus.CounterVec // labels: source={calls,locations}
	ValuesSkipped *prometheus.CounterVec // labels: field={offense_date,offense_time,coordinates}

	// Map metrics.
	MapMarkers     prometheus.Gauge
	MapUnavailable prometheus.Counter

	ChartRenderDuration *prometheus.HistogramVec // labels: chart
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.RowsLoaded,
		m.ValuesSkipped,
		m.MapMarkers,
		m.MapUnavailable,
		m.ChartRenderDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Dashboard pipeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-clean-aggregate run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Rows read from input files by source.",
		}, []string{"source"}),
		ValuesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "values_skipped_total",
			Help:      "Empty or unusable cells left out of an aggregate, by field.",
		}, []string{"field"}),
		MapMarkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "map_markers",
			Help:      "Markers placed on the map in the last run.",
		}),
		MapUnavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_unavailable_total",
			Help:      "Runs where the location table had no coordinate columns.",
		}),
		ChartRenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chart_render_duration_seconds",
			Help:      "Time spent rendering one chart to SVG.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"chart"}),
	}
}
