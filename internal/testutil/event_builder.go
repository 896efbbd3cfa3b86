package testutil

import (
	"github.com/hupe1980/agentgraph/core"
)

// StreamBuilder provides a fluent helper for constructing remote event
// streams in tests. Example:
//
//	evs := NewStreamBuilder("task-1", "ctx-1").Working("thinking").TextArtifact("42").Build()
//
// Every event carries the builder's task and context ids.
type StreamBuilder struct {
	taskID    string
	contextID string
	events    []core.RemoteEvent
}

// NewStreamBuilder creates a builder for events of one remote task.
func NewStreamBuilder(taskID, contextID string) *StreamBuilder {
	return &StreamBuilder{taskID: taskID, contextID: contextID}
}

func (b *StreamBuilder) status(state core.TaskState, text string) *StreamBuilder {
	ev := core.StatusUpdate{TaskID: b.taskID, ContextID: b.contextID, State: state}
	if text != "" {
		msg := core.Message{ID: core.NewID(), Role: core.RoleAgent, TaskID: b.taskID, ContextID: b.contextID, Parts: []core.Part{core.TextPart{Text: text}}}
		ev.Message = &msg
	}
	b.events = append(b.events, ev)
	return b
}

// Working appends a working status update (chainable). Empty text omits the message.
func (b *StreamBuilder) Working(text string) *StreamBuilder {
	return b.status(core.TaskStateWorking, text)
}

// InputRequired appends an input-required status update (chainable).
func (b *StreamBuilder) InputRequired(question string) *StreamBuilder {
	return b.status(core.TaskStateInputRequired, question)
}

// Status appends a status update with an arbitrary state (chainable).
func (b *StreamBuilder) Status(state core.TaskState, text string) *StreamBuilder {
	return b.status(state, text)
}

// TextArtifact appends an artifact update with a single text part (chainable).
func (b *StreamBuilder) TextArtifact(text string) *StreamBuilder {
	return b.Artifact(&core.Artifact{ID: core.NewID(), Name: "result", Parts: []core.Part{core.TextPart{Text: text}}})
}

// DataArtifact appends an artifact update with a single data part (chainable).
func (b *StreamBuilder) DataArtifact(data map[string]any) *StreamBuilder {
	return b.Artifact(&core.Artifact{ID: core.NewID(), Name: "result", Parts: []core.Part{core.DataPart{Data: data}}})
}

// Artifact appends an artifact update (chainable).
func (b *StreamBuilder) Artifact(a *core.Artifact) *StreamBuilder {
	b.events = append(b.events, core.ArtifactUpdate{TaskID: b.taskID, ContextID: b.contextID, Artifact: a})
	return b
}

// Reply appends a final message with the given parts (chainable).
func (b *StreamBuilder) Reply(parts ...core.Part) *StreamBuilder {
	b.events = append(b.events, core.FinalMessage{TaskID: b.taskID, ContextID: b.contextID, Parts: parts})
	return b
}

// Build returns the accumulated events.
func (b *StreamBuilder) Build() []core.RemoteEvent {
	return append([]core.RemoteEvent(nil), b.events...)
}
