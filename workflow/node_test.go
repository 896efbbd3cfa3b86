package workflow

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/internal/testutil"
)

func collect(t *testing.T, seq iter.Seq2[ProgressEvent, error]) ([]ProgressEvent, error) {
	t.Helper()
	var out []ProgressEvent
	for ev, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func TestNodeDefaults(t *testing.T) {
	n := NewNode("book a flight")
	assert.NotEmpty(t, n.ID())
	assert.Equal(t, "book a flight", n.Task())
	assert.Equal(t, core.StatusReady, n.State())
	assert.Nil(t, n.Results())
	assert.Nil(t, n.Agent())
	assert.False(t, n.IsPlanner())
	assert.NotEqual(t, n.ID(), NewNode("book a flight").ID())

	p := NewPlannerNode("plan a trip", func(o *NodeOptions) { o.ID = "p1" })
	assert.True(t, p.IsPlanner())
	assert.Equal(t, "p1", p.ID())
	assert.Equal(t, PlannerKey, p.Label())
}

func TestNodeRunUnbound(t *testing.T) {
	_, err := collect(t, NewNode("x").Run(context.Background(), "x", "", ""))
	assert.ErrorIs(t, err, ErrNodeNotBound)
}

func TestNodeRunPlannerUsesWellKnownResolution(t *testing.T) {
	disc := testutil.NewStaticDiscovery().WellKnown(DefaultPlannerCard, testutil.Agent("planner"))
	inv := testutil.NewScriptedInvoker().On("planner", testutil.NewStreamBuilder("t1", "c1").Working("").Build()...)

	n := NewPlannerNode("plan", func(o *NodeOptions) {
		o.Discovery = disc
		o.Invoker = inv
	})
	evs, err := collect(t, n.Run(context.Background(), "plan a trip", "", ""))
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, EventWorking, evs[0].Kind)
	assert.Equal(t, DefaultWorkingText, evs[0].Content)
	assert.Equal(t, []string{"well-known:" + DefaultPlannerCard}, disc.Calls)
	assert.Equal(t, "planner", n.Agent().Name)

	calls := inv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "plan a trip", calls[0].Message.Text())
	assert.Empty(t, calls[0].Message.TaskID)
}

func TestNodeRunPassesContinuationIDs(t *testing.T) {
	disc := testutil.NewStaticDiscovery().Route("weather", testutil.Agent("weather"))
	inv := testutil.NewScriptedInvoker()
	n := NewNode("weather in Paris", func(o *NodeOptions) { o.Discovery, o.Invoker = disc, inv })

	_, err := collect(t, n.Run(context.Background(), "tomorrow", "task-7", "ctx-7"))
	require.NoError(t, err)
	msg := inv.Calls()[0].Message
	assert.Equal(t, "tomorrow", msg.Text())
	assert.Equal(t, "task-7", msg.TaskID)
	assert.Equal(t, "ctx-7", msg.ContextID)
}

func TestNodeRunTranslatesEvents(t *testing.T) {
	disc := testutil.NewStaticDiscovery().Route("report", testutil.Agent("reporter"))
	stream := testutil.NewStreamBuilder("t1", "c1").
		Working("collecting").
		InputRequired("").
		DataArtifact(map[string]any{"rows": 3}).
		Artifact(&core.Artifact{ID: "empty"}).
		Reply(core.TextPart{Text: "done"}).
		Build()
	inv := testutil.NewScriptedInvoker().On("reporter", stream...)
	n := NewNode("write report", func(o *NodeOptions) { o.Discovery, o.Invoker = disc, inv })

	evs, err := collect(t, n.Run(context.Background(), "write report", "", ""))
	require.NoError(t, err)
	require.Len(t, evs, 5)

	assert.Equal(t, EventWorking, evs[0].Kind)
	assert.Equal(t, "collecting", evs[0].Content)
	assert.False(t, evs[0].Complete)

	assert.Equal(t, EventNeedsInput, evs[1].Kind)
	assert.Equal(t, DefaultNeedsInputText, evs[1].Content)

	assert.Equal(t, EventData, evs[2].Kind)
	assert.True(t, evs[2].Complete)
	assert.Equal(t, map[string]any{"rows": 3}, evs[2].Data)

	assert.Equal(t, EventText, evs[3].Kind)
	assert.Equal(t, DefaultCompletedText, evs[3].Content)
	assert.Equal(t, "empty", n.Results().ID)

	assert.Equal(t, EventText, evs[4].Kind)
	assert.Equal(t, "done", evs[4].Content)
	assert.Nil(t, evs[4].Artifact)

	for _, ev := range evs {
		assert.Equal(t, n.ID(), ev.NodeID)
		assert.Equal(t, "t1", ev.TaskID)
		assert.Equal(t, "c1", ev.ContextID)
	}
	// Run leaves lifecycle state to the graph
	assert.Equal(t, core.StatusReady, n.State())
}

func TestNodeRunStructuredReplies(t *testing.T) {
	disc := testutil.NewStaticDiscovery().Route("report", testutil.Agent("reporter"))
	inv := testutil.NewScriptedInvoker().On("reporter",
		core.StatusUpdate{
			TaskID:    "t1",
			ContextID: "c1",
			State:     core.TaskStateInputRequired,
			Message:   &core.Message{Role: core.RoleAgent, Parts: []core.Part{core.DataPart{Data: map[string]any{"field": "date"}}}},
		},
		core.FinalMessage{
			TaskID:    "t1",
			ContextID: "c1",
			Parts:     []core.Part{core.DataPart{Data: map[string]any{"rows": 3}}, core.TextPart{Text: "ignored"}},
		},
	)
	n := NewNode("write report", func(o *NodeOptions) { o.Discovery, o.Invoker = disc, inv })

	evs, err := collect(t, n.Run(context.Background(), "write report", "", ""))
	require.NoError(t, err)
	require.Len(t, evs, 2)

	assert.Equal(t, EventNeedsInput, evs[0].Kind)
	assert.Equal(t, `{"field":"date"}`, evs[0].Content)

	assert.Equal(t, EventText, evs[1].Kind)
	assert.True(t, evs[1].Complete)
	assert.Equal(t, `{"rows":3}`, evs[1].Content)
	assert.Equal(t, map[string]any{"rows": 3}, evs[1].Data)
	assert.Nil(t, n.Results())
}

func TestNodeRunResolutionFailure(t *testing.T) {
	disc := testutil.NewStaticDiscovery()
	inv := testutil.NewScriptedInvoker()

	t.Run("silent", func(t *testing.T) {
		n := NewNode("unknown task", func(o *NodeOptions) { o.Discovery, o.Invoker = disc, inv })
		evs, err := collect(t, n.Run(context.Background(), "unknown task", "", ""))
		require.NoError(t, err)
		assert.Empty(t, evs)
		assert.Nil(t, n.Agent())
		assert.Empty(t, inv.Calls())
	})

	t.Run("strict", func(t *testing.T) {
		n := NewNode("unknown task", func(o *NodeOptions) {
			o.Discovery, o.Invoker = disc, inv
			o.StrictResolution = true
		})
		_, err := collect(t, n.Run(context.Background(), "unknown task", "", ""))
		assert.ErrorIs(t, err, ErrResolutionFailed)
		assert.ErrorIs(t, err, core.ErrAgentNotFound)
	})

	t.Run("discovery error", func(t *testing.T) {
		broken := testutil.NewStaticDiscovery()
		broken.Err = errors.New("index unavailable")
		n := NewNode("anything", func(o *NodeOptions) { o.Discovery, o.Invoker = broken, inv })
		_, err := collect(t, n.Run(context.Background(), "anything", "", ""))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrResolutionFailed)
		assert.Contains(t, err.Error(), "index unavailable")
	})
}

func TestNodeRunInvocationError(t *testing.T) {
	disc := testutil.NewStaticDiscovery().Route("weather", testutil.Agent("weather"))
	inv := testutil.NewScriptedInvoker().OnScript("weather", testutil.Script{
		Events: testutil.NewStreamBuilder("t", "c").Working("").Build(),
		Err:    errors.New("stream reset"),
	})
	n := NewNode("weather", func(o *NodeOptions) { o.Discovery, o.Invoker = disc, inv })

	evs, err := collect(t, n.Run(context.Background(), "weather", "", ""))
	require.Len(t, evs, 1)
	var ie *core.InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "weather", ie.Agent)
}

func TestNodeRunBreakReleasesStream(t *testing.T) {
	disc := testutil.NewStaticDiscovery().Route("weather", testutil.Agent("weather"))
	inv := testutil.NewScriptedInvoker().On("weather", testutil.NewStreamBuilder("t", "c").Working("a").Working("b").Working("c").Build()...)
	n := NewNode("weather", func(o *NodeOptions) { o.Discovery, o.Invoker = disc, inv })

	count := 0
	for _, err := range n.Run(context.Background(), "weather", "", "") {
		require.NoError(t, err)
		count++
		break
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, inv.Released())
}
