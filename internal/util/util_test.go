package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	ID          int    `json:"id"`
	Description string `json:"description" description:"what to do"`
}

type reply struct {
	Status string `json:"status" enum:"ok,failed"`
	Note   string `json:"note,omitempty"`
	Steps  []step `json:"steps,omitempty"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(reply{})
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"status"}, schema["required"])

	props := schema["properties"].(map[string]any)
	status := props["status"].(map[string]any)
	assert.Equal(t, []string{"ok", "failed"}, status["enum"])

	steps := props["steps"].(map[string]any)
	assert.Equal(t, "array", steps["type"])
	items := steps["items"].(map[string]any)
	desc := items["properties"].(map[string]any)["description"].(map[string]any)
	assert.Equal(t, "what to do", desc["description"])
}

func TestValidate(t *testing.T) {
	schema := CreateSchema(reply{})

	require.NoError(t, Validate(map[string]any{
		"status": "ok",
		"steps":  []any{map[string]any{"id": float64(1), "description": "a"}},
	}, schema))

	err := Validate(map[string]any{"note": "x"}, schema)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	err = Validate(map[string]any{"status": "maybe"}, schema)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "must be one of")

	err = Validate(map[string]any{"status": "ok", "steps": []any{map[string]any{"id": 1.5, "description": "a"}}}, schema)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "steps[0].id", verr.Field)
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("plain", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", out)

	out, err = RenderTemplate(`{{upper .Name}} {{join ", " .Items}} {{json .Obj}}`, map[string]any{
		"Name":  "plan",
		"Items": []string{"a", "b"},
		"Obj":   map[string]any{"k": "v\"q"},
	})
	require.NoError(t, err)
	assert.Equal(t, "PLAN a, b {\n  \"k\": \"v\\\"q\"\n}", out)

	_, err = RenderTemplate("{{", nil)
	assert.Error(t, err)
}
