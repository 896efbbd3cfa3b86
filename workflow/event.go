package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/agentgraph/core"
)

// EventKind classifies a ProgressEvent.
type EventKind int

const (
	// EventWorking reports intermediate progress of a running node.
	EventWorking EventKind = iota
	// EventNeedsInput reports that the node's agent is blocked on user input.
	EventNeedsInput
	// EventText carries a textual result.
	EventText
	// EventData carries a structured result.
	EventData
)

// String returns the lower case name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventWorking:
		return "working"
	case EventNeedsInput:
		return "needs_input"
	case EventText:
		return "text"
	case EventData:
		return "data"
	default:
		return "unknown"
	}
}

// Default texts used when an agent omits a message.
const (
	DefaultNeedsInputText = "Need more information"
	DefaultWorkingText    = "Processing..."
	DefaultCompletedText  = "Task completed"
)

// ProgressEvent is one unit of output of a node or graph run.
type ProgressEvent struct {
	Kind EventKind
	// Complete is true for result events (Text, Data) and false otherwise.
	Complete bool
	Content  string
	Data     map[string]any
	// TaskID and ContextID are the continuation identifiers assigned by the
	// remote agent. They must be passed back when resuming a paused node.
	TaskID    string
	ContextID string
	NodeID    string
	// Artifact is set for events derived from an artifact update.
	Artifact *core.Artifact
}

// RequiresInput reports whether the event pauses the graph.
func (e ProgressEvent) RequiresInput() bool { return e.Kind == EventNeedsInput }

// translate converts a remote event into a progress event. The boolean is
// false when the event carries nothing worth forwarding.
func translate(nodeID string, ev core.RemoteEvent) (ProgressEvent, bool) {
	pe := ProgressEvent{NodeID: nodeID, TaskID: ev.Task(), ContextID: ev.Context()}
	switch e := ev.(type) {
	case core.StatusUpdate:
		text := e.Text()
		if e.State == core.TaskStateInputRequired {
			pe.Kind = EventNeedsInput
			pe.Content = orDefault(text, DefaultNeedsInputText)
			return pe, true
		}
		pe.Kind = EventWorking
		pe.Content = orDefault(text, DefaultWorkingText)
		return pe, true
	case core.ArtifactUpdate:
		if e.Artifact == nil {
			return pe, false
		}
		pe.Complete = true
		pe.Artifact = e.Artifact
		fillResult(&pe, e.Artifact.Parts)
		return pe, true
	case core.FinalMessage:
		pe.Kind = EventText
		pe.Complete = true
		if dp, ok := firstData(e.Parts); ok {
			pe.Data = dp.Data
			pe.Content = dataText(dp.Data)
		} else {
			pe.Content = joinText(e.Parts)
		}
		return pe, true
	default:
		return pe, false
	}
}

func fillResult(pe *ProgressEvent, parts []core.Part) {
	if dp, ok := firstData(parts); ok {
		pe.Kind = EventData
		pe.Data = dp.Data
		return
	}
	pe.Kind = EventText
	pe.Content = orDefault(joinText(parts), DefaultCompletedText)
}

func firstData(parts []core.Part) (core.DataPart, bool) {
	if len(parts) == 0 {
		return core.DataPart{}, false
	}
	dp, ok := parts[0].(core.DataPart)
	return dp, ok
}

func dataText(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprint(data)
	}
	return string(b)
}

func joinText(parts []core.Part) string {
	var texts []string
	for _, p := range parts {
		if tp, ok := p.(core.TextPart); ok && tp.Text != "" {
			texts = append(texts, tp.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
