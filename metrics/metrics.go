// Package metrics exposes Prometheus collectors for workflow activity. A
// *Metrics satisfies workflow.Recorder and is safe to use as a nil value.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "agentgraph"

// Metrics holds the workflow collectors.
type Metrics struct {
	nodeRuns     *prometheus.CounterVec
	nodeDuration *prometheus.HistogramVec
	graphRuns    *prometheus.CounterVec
	pauses       prometheus.Counter
}

// MustNewMetrics registers the collectors with reg, or the default
// registerer when reg is nil. Collectors that are already registered are
// reused; any other registration error panics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		nodeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "node_runs_total",
			Help:      "Number of task node runs by outcome.",
		}, []string{"outcome"}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "node_duration_seconds",
			Help:      "Duration of task node runs, including the agent stream.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		graphRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "workflow_runs_total",
			Help:      "Number of task graph runs by outcome.",
		}, []string{"outcome"}),
		pauses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "workflow_pauses_total",
			Help:      "Number of times a task graph paused for user input.",
		}),
	}

	m.nodeRuns = register(reg, m.nodeRuns)
	m.nodeDuration = register(reg, m.nodeDuration)
	m.graphRuns = register(reg, m.graphRuns)
	m.pauses = register(reg, m.pauses)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveNodeRun records one node run.
func (m *Metrics) ObserveNodeRun(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.nodeRuns.WithLabelValues(outcome).Inc()
	m.nodeDuration.WithLabelValues(outcome).Observe(dur.Seconds())
}

// ObserveGraphRun records one graph run.
func (m *Metrics) ObserveGraphRun(outcome string) {
	if m == nil {
		return
	}
	m.graphRuns.WithLabelValues(outcome).Inc()
}

// IncPause records a graph pause.
func (m *Metrics) IncPause() {
	if m == nil {
		return
	}
	m.pauses.Inc()
}

// Handler returns an HTTP handler serving the metrics gathered by g, or the
// default gatherer when g is nil.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
