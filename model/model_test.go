package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModelCannedAndDefault(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.AddResponse("hi", "hello")

	out, err := Collect(context.Background(), m, UserText("", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = Collect(context.Background(), m, UserText("", "other"))
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: other", out)
	assert.Len(t, m.Requests(), 2)
}

func TestMockModelQueueTakesPrecedence(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.AddResponse("hi", "hello")
	m.QueueResponse("queued")

	out, err := Collect(context.Background(), m, UserText("", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "queued", out)

	out, err = Collect(context.Background(), m, UserText("", "hi"))
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestMockModelStreaming(t *testing.T) {
	m := NewMockModel("mock", "mock")
	m.AddResponse("hi", "abc")
	req := UserText("", "hi")
	req.Stream = true

	respCh, errCh := m.Generate(context.Background(), req)
	var partials int
	var final string
	for r := range respCh {
		if r.Partial {
			partials++
			continue
		}
		final = r.Content.Text()
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, 3, partials)
	assert.Equal(t, "abc", final)
}

func TestCollectErrors(t *testing.T) {
	m := NewMockModel("mock", "mock")
	_, err := Collect(context.Background(), m, Request{})
	assert.ErrorContains(t, err, "no contents")

	m.SetError(errors.New("rate limited"))
	_, err = Collect(context.Background(), m, UserText("", "x"))
	assert.ErrorContains(t, err, "rate limited")
}
