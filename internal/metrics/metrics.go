package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the pipeline metrics on its own registry.
type Collector struct {
	registry    *prometheus.Registry
	rowsTotal   prometheus.Gauge
	rowsMatched prometheus.Gauge
	runs        *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New registers the pipeline metrics plus the Go runtime collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rowsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "statsboard",
			Name:      "dataset_rows",
			Help:      "Rows in the loaded dataset.",
		}),
		rowsMatched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "statsboard",
			Name:      "matched_rows",
			Help:      "Rows that satisfied both filter rules.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statsboard",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "statsboard",
			Name:      "pipeline_duration_seconds",
			Help:      "Time spent selecting rows and computing statistics.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	c.registry.MustRegister(
		c.rowsTotal, c.rowsMatched, c.runs, c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveRun records one pipeline run.
func (c *Collector) ObserveRun(total, matched int, took time.Duration, err error) {
	c.duration.Observe(took.Seconds())
	if err != nil {
		c.runs.WithLabelValues("error").Inc()
		return
	}
	c.runs.WithLabelValues("ok").Inc()
	c.rowsTotal.Set(float64(total))
	c.rowsMatched.Set(float64(matched))
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// DatasetRows is the gauge of loaded rows.
func (c *Collector) DatasetRows() prometheus.Gauge { return c.rowsTotal }

// MatchedRows is the gauge of rows that passed the filter.
func (c *Collector) MatchedRows() prometheus.Gauge { return c.rowsMatched }
