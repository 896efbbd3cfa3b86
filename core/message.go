package core

// Role identifies the author of a message.
type Role string

const (
	// RoleUser marks messages sent on behalf of the user.
	RoleUser Role = "user"
	// RoleAgent marks messages produced by an agent.
	RoleAgent Role = "agent"
)

// Message is the request sent to a remote agent. TaskID and ContextID are
// continuation identifiers; both are empty on the first call.
type Message struct {
	ID        string `json:"messageId"`
	Role      Role   `json:"role"`
	TaskID    string `json:"taskId,omitempty"`
	ContextID string `json:"contextId,omitempty"`
	Parts     []Part `json:"parts"`
}

// NewUserMessage builds a single text part user message with a fresh id.
func NewUserMessage(text, taskID, contextID string) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleUser,
		TaskID:    taskID,
		ContextID: contextID,
		Parts:     []Part{TextPart{Text: text}},
	}
}

// Text returns the text of the first text part, if any.
func (m Message) Text() string {
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			return tp.Text
		}
	}
	return ""
}
