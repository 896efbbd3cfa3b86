package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/model"
)

func TestSystemBlocks(t *testing.T) {
	req := model.Request{
		Instructions: "plan tasks",
		Contents:     []core.Content{{Role: "system", Parts: []core.Part{core.TextPart{Text: "extra"}}}},
		JSONMode:     true,
	}
	blocks := systemBlocks(req)
	require.Len(t, blocks, 3)
	assert.Equal(t, "plan tasks", blocks[0].Text)
	assert.Equal(t, jsonOnlyInstruction, blocks[2].Text)

	assert.Len(t, buildMessages(req.Contents), 0)
}

func TestGenerate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-3-5-sonnet-20241022",
			"content": [{"type": "text", "text": "Hello there"}],
			"stop_reason": "end_turn", "stop_sequence": null,
			"usage": {"input_tokens": 3, "output_tokens": 2}
		}`))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL
	})
	out, err := model.Collect(context.Background(), m, model.UserText("be nice", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "Hello there", out)

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 1)
	assert.Equal(t, "anthropic", m.Info().Provider)
}
