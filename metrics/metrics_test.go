package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	itestutil "github.com/hupe1980/agentgraph/internal/testutil"
	"github.com/hupe1980/agentgraph/workflow"
)

var _ workflow.Recorder = (*Metrics)(nil)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.ObserveNodeRun(workflow.OutcomeCompleted, 250*time.Millisecond)
	m.ObserveNodeRun(workflow.OutcomeCompleted, time.Second)
	m.ObserveNodeRun(workflow.OutcomePaused, time.Second)
	m.ObserveGraphRun(workflow.OutcomePaused)
	m.IncPause()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.nodeRuns.WithLabelValues(workflow.OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.graphRuns.WithLabelValues(workflow.OutcomePaused)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pauses))
	assert.Equal(t, 2, testutil.CollectAndCount(m.nodeDuration))
}

func TestMetricsReuseRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := MustNewMetrics(reg)
	second := MustNewMetrics(reg)

	second.IncPause()
	assert.Equal(t, 1.0, testutil.ToFloat64(first.pauses))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveNodeRun(workflow.OutcomeFailed, time.Second)
		m.ObserveGraphRun(workflow.OutcomeFailed)
		m.IncPause()
	})
}

func TestGraphRunRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	disco := itestutil.NewStaticDiscovery().Route("flight", itestutil.Agent("air"))
	inv := itestutil.NewScriptedInvoker().
		On("air", itestutil.NewStreamBuilder("t1", "c1").InputRequired("Which date?").Build()...)
	g := workflow.NewGraph(disco, inv, func(o *workflow.GraphOptions) { o.Recorder = m })
	require.NoError(t, g.AddNode(workflow.NewNode("Book a flight")))

	for _, err := range g.Run(context.Background(), "") {
		require.NoError(t, err)
	}
	assert.Equal(t, core.StatusPaused, g.State())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pauses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.graphRuns.WithLabelValues(workflow.OutcomePaused)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.nodeRuns.WithLabelValues(workflow.OutcomePaused)))

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `agentgraph_workflow_pauses_total 1`)
	assert.Contains(t, string(body), `agentgraph_node_runs_total{outcome="paused"} 1`)
}
