package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactPrimaryPart(t *testing.T) {
	var nilArtifact *Artifact
	assert.Nil(t, nilArtifact.PrimaryPart())
	assert.False(t, nilArtifact.IsStructured())

	a := &Artifact{ID: "a1", Parts: []Part{DataPart{Data: map[string]any{"k": 1}}, TextPart{Text: "x"}}}
	assert.True(t, a.IsStructured())

	text := &Artifact{ID: "a2", Parts: []Part{TextPart{Text: "42"}}}
	assert.False(t, text.IsStructured())
	assert.Equal(t, TextPart{Text: "42"}, text.PrimaryPart())
}

func TestArtifactClone(t *testing.T) {
	a := &Artifact{ID: "a1", Parts: []Part{TextPart{Text: "x"}}, Metadata: map[string]any{"k": "v"}}
	cp := a.Clone()
	cp.Parts[0] = TextPart{Text: "y"}
	cp.Metadata["k"] = "changed"

	assert.Equal(t, TextPart{Text: "x"}, a.Parts[0])
	assert.Equal(t, "v", a.Metadata["k"])
}

func TestNewUserMessage(t *testing.T) {
	m := NewUserMessage("hello", "t1", "c1")
	require.NotEmpty(t, m.ID)
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "t1", m.TaskID)
	assert.Equal(t, "c1", m.ContextID)
	assert.Equal(t, "hello", m.Text())
	assert.NotEqual(t, m.ID, NewUserMessage("hello", "", "").ID)
}

func TestContentText(t *testing.T) {
	c := Content{Parts: []Part{TextPart{Text: "a"}, DataPart{}, TextPart{Text: "b"}}}
	assert.Equal(t, "ab", c.Text())
}

func TestStatusUpdateText(t *testing.T) {
	assert.Equal(t, "", StatusUpdate{}.Text())
	msg := NewUserMessage("need a date", "", "")
	ev := StatusUpdate{TaskID: "t", ContextID: "c", State: TaskStateInputRequired, Message: &msg}
	assert.Equal(t, "need a date", ev.Text())
	assert.Equal(t, "t", ev.Task())
	assert.Equal(t, "c", ev.Context())

	data := StatusUpdate{Message: &Message{Parts: []Part{DataPart{Data: map[string]any{"missing": "date"}}}}}
	assert.Equal(t, `{"missing":"date"}`, data.Text())
}

func TestInvocationError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInvocationError("weather", cause)

	var ie *InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "weather", ie.Agent)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "weather")

	// already typed errors are not double wrapped
	wrapped := fmt.Errorf("outer: %w", err)
	assert.Same(t, wrapped, NewInvocationError("other", wrapped))

	assert.NoError(t, NewInvocationError("x", nil))
}
