package core

import "encoding/json"

// TaskState is the state a remote agent reports for a task.
type TaskState string

const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateCanceled      TaskState = "canceled"
	TaskStateFailed        TaskState = "failed"
	TaskStateRejected      TaskState = "rejected"
	TaskStateAuthRequired  TaskState = "auth-required"
	TaskStateUnknown       TaskState = "unknown"
)

// RemoteEvent is one event of a streaming agent response. The set of
// implementations is closed: StatusUpdate, ArtifactUpdate and FinalMessage.
// Transports translate their wire events into RemoteEvent exactly once.
type RemoteEvent interface {
	isRemoteEvent()
	// Task returns the task id assigned by the remote agent.
	Task() string
	// Context returns the context id assigned by the remote agent.
	Context() string
}

// StatusUpdate reports a task state transition with an optional message.
type StatusUpdate struct {
	TaskID    string
	ContextID string
	State     TaskState
	Message   *Message
	Final     bool
}

func (StatusUpdate) isRemoteEvent()    {}
func (e StatusUpdate) Task() string    { return e.TaskID }
func (e StatusUpdate) Context() string { return e.ContextID }

// Text returns the first text part of the attached message. A message
// without text falls back to the JSON of its first data part.
func (e StatusUpdate) Text() string {
	if e.Message == nil {
		return ""
	}
	if text := e.Message.Text(); text != "" {
		return text
	}
	for _, p := range e.Message.Parts {
		if dp, ok := p.(DataPart); ok {
			if b, err := json.Marshal(dp.Data); err == nil {
				return string(b)
			}
		}
	}
	return ""
}

// ArtifactUpdate delivers an output artifact of the task.
type ArtifactUpdate struct {
	TaskID    string
	ContextID string
	Artifact  *Artifact
}

func (ArtifactUpdate) isRemoteEvent()    {}
func (e ArtifactUpdate) Task() string    { return e.TaskID }
func (e ArtifactUpdate) Context() string { return e.ContextID }

// FinalMessage is a direct reply that ends the exchange without a task.
type FinalMessage struct {
	TaskID    string
	ContextID string
	Parts     []Part
}

func (FinalMessage) isRemoteEvent()    {}
func (e FinalMessage) Task() string    { return e.TaskID }
func (e FinalMessage) Context() string { return e.ContextID }
