package a2a

import (
	a2acore "github.com/a2aproject/a2a-go/a2a"

	"github.com/hupe1980/agentgraph/core"
)

// AgentCard builds the card the a2a-go client needs from a descriptor.
func AgentCard(d *core.AgentDescriptor) *a2acore.AgentCard {
	return &a2acore.AgentCard{
		Name:               d.Name,
		Description:        d.Description,
		URL:                d.URL,
		Version:            d.Version,
		PreferredTransport: a2acore.TransportProtocolJSONRPC,
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
		Capabilities:       a2acore.AgentCapabilities{Streaming: d.Streaming},
	}
}

func toWireMessage(m core.Message) *a2acore.Message {
	role := a2acore.MessageRoleUser
	if m.Role == core.RoleAgent {
		role = a2acore.MessageRoleAgent
	}
	id := m.ID
	if id == "" {
		id = core.NewID()
	}
	return &a2acore.Message{
		ID:        id,
		Role:      role,
		TaskID:    a2acore.TaskID(m.TaskID),
		ContextID: m.ContextID,
		Parts:     toWireParts(m.Parts),
	}
}

func toWireParts(parts []core.Part) a2acore.ContentParts {
	out := make(a2acore.ContentParts, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case core.TextPart:
			out = append(out, a2acore.TextPart{Text: v.Text})
		case core.DataPart:
			out = append(out, a2acore.DataPart{Data: v.Data})
		}
	}
	return out
}

func fromWireParts(parts a2acore.ContentParts) []core.Part {
	out := make([]core.Part, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case a2acore.TextPart:
			out = append(out, core.TextPart{Text: v.Text})
		case *a2acore.TextPart:
			out = append(out, core.TextPart{Text: v.Text})
		case a2acore.DataPart:
			out = append(out, core.DataPart{Data: v.Data})
		case *a2acore.DataPart:
			out = append(out, core.DataPart{Data: v.Data})
		}
	}
	return out
}

func fromWireMessage(m *a2acore.Message) *core.Message {
	if m == nil {
		return nil
	}
	role := core.RoleAgent
	if m.Role == a2acore.MessageRoleUser {
		role = core.RoleUser
	}
	return &core.Message{
		ID:        m.ID,
		Role:      role,
		TaskID:    string(m.TaskID),
		ContextID: m.ContextID,
		Parts:     fromWireParts(m.Parts),
	}
}

func fromWireArtifact(a *a2acore.Artifact) *core.Artifact {
	if a == nil {
		return nil
	}
	return &core.Artifact{
		ID:          string(a.ID),
		Name:        a.Name,
		Description: a.Description,
		Parts:       fromWireParts(a.Parts),
		Metadata:    a.Metadata,
	}
}

// translate converts one protocol event. A Task snapshot only produces
// events when it already waits for input or carries artifacts; otherwise
// the returned slice is empty.
func translate(ev a2acore.Event) []core.RemoteEvent {
	switch e := ev.(type) {
	case *a2acore.TaskStatusUpdateEvent:
		return []core.RemoteEvent{core.StatusUpdate{
			TaskID:    string(e.TaskID),
			ContextID: e.ContextID,
			State:     core.TaskState(e.Status.State),
			Message:   fromWireMessage(e.Status.Message),
			Final:     e.Final,
		}}
	case *a2acore.TaskArtifactUpdateEvent:
		return []core.RemoteEvent{core.ArtifactUpdate{
			TaskID:    string(e.TaskID),
			ContextID: e.ContextID,
			Artifact:  fromWireArtifact(e.Artifact),
		}}
	case *a2acore.Message:
		return []core.RemoteEvent{core.FinalMessage{
			TaskID:    string(e.TaskID),
			ContextID: e.ContextID,
			Parts:     fromWireParts(e.Parts),
		}}
	case *a2acore.Task:
		var out []core.RemoteEvent
		for _, a := range e.Artifacts {
			out = append(out, core.ArtifactUpdate{TaskID: string(e.ID), ContextID: e.ContextID, Artifact: fromWireArtifact(a)})
		}
		if e.Status.State == a2acore.TaskStateInputRequired {
			out = append(out, core.StatusUpdate{
				TaskID:    string(e.ID),
				ContextID: e.ContextID,
				State:     core.TaskStateInputRequired,
				Message:   fromWireMessage(e.Status.Message),
			})
		}
		return out
	default:
		return nil
	}
}

// toWireEvent converts an in-process event into its protocol form.
func toWireEvent(ev core.RemoteEvent, taskID a2acore.TaskID, contextID string) a2acore.Event {
	switch e := ev.(type) {
	case core.StatusUpdate:
		status := a2acore.TaskStatus{State: a2acore.TaskState(e.State)}
		if e.Message != nil {
			status.Message = toWireMessage(*e.Message)
			status.Message.Role = a2acore.MessageRoleAgent
		}
		return &a2acore.TaskStatusUpdateEvent{TaskID: taskID, ContextID: contextID, Status: status, Final: e.Final}
	case core.ArtifactUpdate:
		art := &a2acore.Artifact{ID: a2acore.ArtifactID(core.NewID())}
		if e.Artifact != nil {
			if e.Artifact.ID != "" {
				art.ID = a2acore.ArtifactID(e.Artifact.ID)
			}
			art.Name = e.Artifact.Name
			art.Description = e.Artifact.Description
			art.Parts = toWireParts(e.Artifact.Parts)
			art.Metadata = e.Artifact.Metadata
		}
		return &a2acore.TaskArtifactUpdateEvent{TaskID: taskID, ContextID: contextID, Artifact: art}
	case core.FinalMessage:
		return &a2acore.Message{
			ID:        core.NewID(),
			Role:      a2acore.MessageRoleAgent,
			TaskID:    taskID,
			ContextID: contextID,
			Parts:     toWireParts(e.Parts),
		}
	default:
		return nil
	}
}
