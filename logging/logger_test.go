package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*WorkflowLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Output = &buf
	cfg.Level = level
	return NewLogger(cfg), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestWorkflowLoggerAttributes(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.WithComponent("graph").WithRun("ctx-1", "run-1").WithAttr("tenant", "acme").Info("started", "nodes", 3)

	m := decodeLine(t, buf)
	assert.Equal(t, "started", m["msg"])
	assert.Equal(t, "graph", m["component"])
	assert.Equal(t, "ctx-1", m["context_id"])
	assert.Equal(t, "run-1", m["run_id"])
	assert.Equal(t, "acme", m["tenant"])
	assert.EqualValues(t, 3, m["nodes"])
}

func TestWorkflowLoggerCloneIsolation(t *testing.T) {
	base, buf := newBufferLogger(LogLevelInfo)
	_ = base.WithAttr("k", "v")
	base.Info("plain")

	m := decodeLine(t, buf)
	_, ok := m["k"]
	assert.False(t, ok)
}

func TestWorkflowLoggerLevelFilter(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)
	l.Info("hidden")
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogNodeRun(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.LogNodeRun("n1", "planner_agent", "COMPLETED", 5*time.Millisecond, nil)
	m := decodeLine(t, buf)
	assert.Equal(t, "Node run completed", m["msg"])
	assert.Equal(t, "planner_agent", m["agent"])

	buf.Reset()
	l.LogNodeRun("n1", "planner_agent", "RUNNING", time.Millisecond, errors.New("boom"))
	m = decodeLine(t, buf)
	assert.Equal(t, "Node run failed", m["msg"])
	assert.Equal(t, "boom", m["error"])
	assert.Equal(t, slog.LevelError.String(), m["level"])
}

func TestLogRun(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.LogRun(2, "PAUSED", time.Second, nil)
	m := decodeLine(t, buf)
	assert.Equal(t, "Workflow run finished", m["msg"])
	assert.Equal(t, "PAUSED", m["status"])
	assert.EqualValues(t, 2, m["node_count"])
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}
