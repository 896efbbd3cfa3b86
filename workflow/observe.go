package workflow

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/hupe1980/agentgraph/workflow"

// Recorder receives run measurements. The metrics package provides a
// Prometheus backed implementation.
type Recorder interface {
	ObserveNodeRun(outcome string, dur time.Duration)
	ObserveGraphRun(outcome string)
	IncPause()
}

// Outcome labels passed to a Recorder.
const (
	OutcomeCompleted  = "completed"
	OutcomePaused     = "paused"
	OutcomeUnresolved = "unresolved"
	OutcomeFailed     = "failed"
	OutcomeCanceled   = "canceled"
)

type noopRecorder struct{}

func (noopRecorder) ObserveNodeRun(string, time.Duration) {}
func (noopRecorder) ObserveGraphRun(string)               {}
func (noopRecorder) IncPause()                            {}

func tracer() trace.Tracer { return otel.Tracer(instrumentationName) }

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
