// Package telemetry counts tracing work with Prometheus collectors.
//
// A nil *Collector is valid and records nothing, so engines can carry one
// unconditionally.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	registry *prometheus.Registry
	traces   *prometheus.CounterVec
	steps    *prometheus.CounterVec
	stops    *prometheus.CounterVec
	duration prometheus.Histogram
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		traces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldtrace_traces_total",
			Help: "Total number of traces run.",
		}, []string{"method", "direction"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldtrace_steps_total",
			Help: "Total number of integration steps taken.",
		}, []string{"method"}),
		stops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldtrace_branch_stops_total",
			Help: "Branch terminations by reason.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldtrace_trace_duration_seconds",
			Help:    "Wall time of a single trace.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}
	c.registry.MustRegister(c.traces, c.steps, c.stops, c.duration)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) ObserveTrace(method, direction string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.traces.WithLabelValues(method, direction).Inc()
	c.duration.Observe(elapsed.Seconds())
}

func (c *Collector) AddSteps(method string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.steps.WithLabelValues(method).Add(float64(n))
}

func (c *Collector) ObserveStop(reason string) {
	if c == nil {
		return
	}
	c.stops.WithLabelValues(reason).Inc()
}

// WriteFile writes the registry in text exposition format, for the
// node_exporter textfile collector.
func (c *Collector) WriteFile(path string) error {
	if c == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.registry)
}
