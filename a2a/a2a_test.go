package a2a

import (
	"context"
	"errors"
	"iter"
	"testing"

	a2acore "github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/a2aproject/a2a-go/a2asrv/eventqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/localagent"
)

type fakeClient struct {
	events    []a2acore.Event
	err       error
	sent      *a2acore.MessageSendParams
	destroyed bool
}

func (c *fakeClient) SendStreamingMessage(_ context.Context, params *a2acore.MessageSendParams) iter.Seq2[a2acore.Event, error] {
	c.sent = params
	return func(yield func(a2acore.Event, error) bool) {
		for _, ev := range c.events {
			if !yield(ev, nil) {
				return
			}
		}
		if c.err != nil {
			yield(nil, c.err)
		}
	}
}

func (c *fakeClient) Destroy() error {
	c.destroyed = true
	return nil
}

func newTestInvoker(c *fakeClient) *Invoker {
	return NewInvoker(func(o *InvokerOptions) {
		o.Factory = func(context.Context, *a2acore.AgentCard) (Client, error) {
			return c, nil
		}
	})
}

func agentMessage(text string) *a2acore.Message {
	return &a2acore.Message{ID: "m1", Role: a2acore.MessageRoleAgent, Parts: a2acore.ContentParts{a2acore.TextPart{Text: text}}}
}

func drain(t *testing.T, seq iter.Seq2[core.RemoteEvent, error]) ([]core.RemoteEvent, error) {
	t.Helper()
	var out []core.RemoteEvent
	for ev, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, ev)
	}
	return out, nil
}

var weather = &core.AgentDescriptor{Name: "weather", URL: "http://localhost:10105/", Streaming: true}

func TestInvokerTranslatesEvents(t *testing.T) {
	c := &fakeClient{events: []a2acore.Event{
		&a2acore.Task{ID: "t1", ContextID: "c1", Status: a2acore.TaskStatus{State: a2acore.TaskStateSubmitted}},
		&a2acore.TaskStatusUpdateEvent{TaskID: "t1", ContextID: "c1", Status: a2acore.TaskStatus{State: a2acore.TaskStateWorking, Message: agentMessage("checking")}},
		&a2acore.TaskArtifactUpdateEvent{TaskID: "t1", ContextID: "c1", Artifact: &a2acore.Artifact{ID: "a1", Name: "forecast", Parts: a2acore.ContentParts{a2acore.DataPart{Data: map[string]any{"temp": 21}}}}},
		&a2acore.TaskStatusUpdateEvent{TaskID: "t1", ContextID: "c1", Status: a2acore.TaskStatus{State: a2acore.TaskStateCompleted}, Final: true},
	}}
	inv := newTestInvoker(c)

	evs, err := drain(t, inv.Invoke(context.Background(), weather, core.NewUserMessage("Paris", "", "")))
	require.NoError(t, err)
	require.Len(t, evs, 3, "submitted task snapshot is not forwarded")

	su, ok := evs[0].(core.StatusUpdate)
	require.True(t, ok)
	assert.Equal(t, core.TaskStateWorking, su.State)
	assert.Equal(t, "checking", su.Text())
	assert.Equal(t, "t1", su.Task())
	assert.Equal(t, "c1", su.Context())

	au, ok := evs[1].(core.ArtifactUpdate)
	require.True(t, ok)
	assert.Equal(t, "a1", au.Artifact.ID)
	assert.Equal(t, []core.Part{core.DataPart{Data: map[string]any{"temp": 21}}}, au.Artifact.Parts)

	final, ok := evs[2].(core.StatusUpdate)
	require.True(t, ok)
	assert.True(t, final.Final)
	assert.True(t, c.destroyed)
}

func TestInvokerSendsContinuationIDs(t *testing.T) {
	c := &fakeClient{}
	var card *a2acore.AgentCard
	inv := NewInvoker(func(o *InvokerOptions) {
		o.Factory = func(_ context.Context, ac *a2acore.AgentCard) (Client, error) {
			card = ac
			return c, nil
		}
	})

	_, err := drain(t, inv.Invoke(context.Background(), weather, core.NewUserMessage("tomorrow", "t9", "c9")))
	require.NoError(t, err)

	require.NotNil(t, card)
	assert.Equal(t, "http://localhost:10105/", card.URL)
	assert.True(t, card.Capabilities.Streaming)

	require.NotNil(t, c.sent)
	msg := c.sent.Message
	assert.Equal(t, a2acore.TaskID("t9"), msg.TaskID)
	assert.Equal(t, "c9", msg.ContextID)
	assert.Equal(t, a2acore.MessageRoleUser, msg.Role)
	require.Len(t, msg.Parts, 1)
	assert.Equal(t, a2acore.TextPart{Text: "tomorrow"}, msg.Parts[0])
}

func TestInvokerTaskSnapshotNeedingInput(t *testing.T) {
	c := &fakeClient{events: []a2acore.Event{
		&a2acore.Task{ID: "t1", ContextID: "c1", Status: a2acore.TaskStatus{State: a2acore.TaskStateInputRequired, Message: agentMessage("which date?")}},
	}}
	inv := newTestInvoker(c)
	evs, err := drain(t, inv.Invoke(context.Background(), weather, core.NewUserMessage("book", "", "")))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	su := evs[0].(core.StatusUpdate)
	assert.Equal(t, core.TaskStateInputRequired, su.State)
	assert.Equal(t, "which date?", su.Text())
}

func TestInvokerDirectMessage(t *testing.T) {
	reply := agentMessage("hello")
	reply.ContextID = "c1"
	c := &fakeClient{events: []a2acore.Event{reply}}
	inv := newTestInvoker(c)
	evs, err := drain(t, inv.Invoke(context.Background(), weather, core.NewUserMessage("hi", "", "")))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	fm := evs[0].(core.FinalMessage)
	assert.Equal(t, "c1", fm.ContextID)
	assert.Equal(t, []core.Part{core.TextPart{Text: "hello"}}, fm.Parts)
}

func TestInvokerErrors(t *testing.T) {
	t.Run("stream", func(t *testing.T) {
		c := &fakeClient{err: errors.New("connection reset")}
		inv := newTestInvoker(c)
		_, err := drain(t, inv.Invoke(context.Background(), weather, core.NewUserMessage("x", "", "")))
		var ie *core.InvocationError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "weather", ie.Agent)
		assert.True(t, c.destroyed)
	})

	t.Run("factory", func(t *testing.T) {
		inv := NewInvoker(func(o *InvokerOptions) {
			o.Factory = func(context.Context, *a2acore.AgentCard) (Client, error) {
				return nil, errors.New("no transport")
			}
		})
		_, err := drain(t, inv.Invoke(context.Background(), weather, core.NewUserMessage("x", "", "")))
		var ie *core.InvocationError
		require.ErrorAs(t, err, &ie)
		assert.ErrorContains(t, err, "no transport")
	})
}

func TestInvokerBreakDestroysClient(t *testing.T) {
	c := &fakeClient{events: []a2acore.Event{
		&a2acore.TaskStatusUpdateEvent{TaskID: "t1", Status: a2acore.TaskStatus{State: a2acore.TaskStateWorking}},
		&a2acore.TaskStatusUpdateEvent{TaskID: "t1", Status: a2acore.TaskStatus{State: a2acore.TaskStateWorking}},
	}}
	inv := newTestInvoker(c)
	for range inv.Invoke(context.Background(), weather, core.NewUserMessage("x", "", "")) {
		break
	}
	assert.True(t, c.destroyed)
}

// recordingQueue records written events. Read and Close are never called by
// the executor.
type recordingQueue struct {
	eventqueue.Queue
	events []a2acore.Event
}

func (q *recordingQueue) Write(_ context.Context, ev a2acore.Event) error {
	q.events = append(q.events, ev)
	return nil
}

func TestAgentExecutor(t *testing.T) {
	agent := localagent.NewFunc("echo", func(_ context.Context, msg core.Message) iter.Seq2[core.RemoteEvent, error] {
		return func(yield func(core.RemoteEvent, error) bool) {
			if !yield(core.StatusUpdate{State: core.TaskStateWorking}, nil) {
				return
			}
			yield(core.ArtifactUpdate{Artifact: &core.Artifact{ID: "a1", Parts: []core.Part{core.TextPart{Text: msg.Text()}}}}, nil)
		}
	})
	exec := NewAgentExecutor(agent)
	q := &recordingQueue{}
	reqCtx := &a2asrv.RequestContext{TaskID: "t1", ContextID: "c1", Message: &a2acore.Message{
		ID: "m1", Role: a2acore.MessageRoleUser, Parts: a2acore.ContentParts{a2acore.TextPart{Text: "ping"}},
	}}

	require.NoError(t, exec.Execute(context.Background(), reqCtx, q))
	require.Len(t, q.events, 2)
	status, ok := q.events[0].(*a2acore.TaskStatusUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, a2acore.TaskID("t1"), status.TaskID)
	art, ok := q.events[1].(*a2acore.TaskArtifactUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, a2acore.ContentParts{a2acore.TextPart{Text: "ping"}}, art.Artifact.Parts)

	q.events = nil
	require.NoError(t, exec.Cancel(context.Background(), reqCtx, q))
	require.Len(t, q.events, 1)
	assert.Equal(t, a2acore.TaskStateCanceled, q.events[0].(*a2acore.TaskStatusUpdateEvent).Status.State)
}
