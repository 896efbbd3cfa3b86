package workflow

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
)

// PlannerKey marks a node that is served by the well-known planner agent.
const PlannerKey = "planner"

// DefaultPlannerCard is the well-known name resolved for planner nodes.
const DefaultPlannerCard = "planner_agent"

// NodeOptions configures a Node.
type NodeOptions struct {
	// ID overrides the generated node id.
	ID string
	// Key is an optional classification tag. PlannerKey selects well-known
	// resolution.
	Key string
	// Label is an optional display tag.
	Label string
	// PlannerCard is the well-known name resolved when Key == PlannerKey.
	PlannerCard string
	// StrictResolution turns a failed agent resolution into ErrResolutionFailed.
	StrictResolution bool

	Discovery core.Discovery
	Invoker   core.Invoker
	Logger    logging.Logger
}

// Node is a single task delegated to an agent. Its State is owned by the
// Graph that contains it.
type Node struct {
	id   string
	task string
	opts NodeOptions

	mu      sync.RWMutex
	state   core.Status
	results *core.Artifact
	agent   *core.AgentDescriptor
}

// NewNode creates a node for the given task description in state Ready.
func NewNode(task string, optFns ...func(o *NodeOptions)) *Node {
	opts := NodeOptions{PlannerCard: DefaultPlannerCard}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ID == "" {
		opts.ID = core.NewID()
	}
	if opts.PlannerCard == "" {
		opts.PlannerCard = DefaultPlannerCard
	}
	return &Node{id: opts.ID, task: task, opts: opts, state: core.StatusReady}
}

// NewPlannerNode creates a node served by the well-known planner agent.
func NewPlannerNode(query string, optFns ...func(o *NodeOptions)) *Node {
	return NewNode(query, append([]func(o *NodeOptions){func(o *NodeOptions) {
		o.Key = PlannerKey
		o.Label = PlannerKey
	}}, optFns...)...)
}

// ID returns the immutable node id.
func (n *Node) ID() string { return n.id }

// Task returns the task description.
func (n *Node) Task() string { return n.task }

// Key returns the classification key.
func (n *Node) Key() string { return n.opts.Key }

// Label returns the display label.
func (n *Node) Label() string { return n.opts.Label }

// IsPlanner reports whether the node resolves to the planner agent.
func (n *Node) IsPlanner() bool { return n.opts.Key == PlannerKey }

// State returns the current lifecycle state.
func (n *Node) State() core.Status {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// Results returns the last artifact produced by the node, or nil.
func (n *Node) Results() *core.Artifact {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.results
}

// Agent returns the descriptor resolved by the most recent run, or nil when
// resolution failed or the node never ran.
func (n *Node) Agent() *core.AgentDescriptor {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.agent
}

func (n *Node) setState(s core.Status) {
	n.mu.Lock()
	n.state = s
	n.mu.Unlock()
}

// resetPaused returns a paused node whose agent could not be resolved on
// resume to Ready. A node that never resolved stays in its state.
func (n *Node) resetPaused() {
	n.mu.Lock()
	if n.state == core.StatusPaused {
		n.state = core.StatusReady
	}
	n.mu.Unlock()
}

func (n *Node) setResults(a *core.Artifact) {
	n.mu.Lock()
	n.results = a
	n.mu.Unlock()
}

func (n *Node) setAgent(a *core.AgentDescriptor) {
	n.mu.Lock()
	n.agent = a
	n.mu.Unlock()
}

// bind fills collaborators the node was created without.
func (n *Node) bind(d core.Discovery, inv core.Invoker, l logging.Logger, strict bool) {
	if n.opts.Discovery == nil {
		n.opts.Discovery = d
	}
	if n.opts.Invoker == nil {
		n.opts.Invoker = inv
	}
	if n.opts.Logger == nil {
		n.opts.Logger = l
	}
	if strict {
		n.opts.StrictResolution = true
	}
}

func (n *Node) logger() logging.Logger { return logging.OrNoOp(n.opts.Logger) }

func (n *Node) resolve(ctx context.Context) (*core.AgentDescriptor, error) {
	if n.IsPlanner() {
		return n.opts.Discovery.ResolveWellKnown(ctx, n.opts.PlannerCard)
	}
	return n.opts.Discovery.Resolve(ctx, n.task)
}

// Run resolves the node's agent and streams one call to it. query is the
// text sent to the agent; taskID and contextID continue a previous exchange
// and are empty on the first call.
//
// The sequence is single-pass. A failed resolution yields nothing unless the
// node is strict, in which case a single ErrResolutionFailed is yielded.
// Transport failures are yielded as *core.InvocationError and end the
// sequence. Run does not change the node's State; the graph does.
func (n *Node) Run(ctx context.Context, query, taskID, contextID string) iter.Seq2[ProgressEvent, error] {
	return n.run(ctx, query, taskID, contextID, nil)
}

// run is Run with a hook called once the agent is resolved, before it is
// invoked.
func (n *Node) run(ctx context.Context, query, taskID, contextID string, onResolved func()) iter.Seq2[ProgressEvent, error] {
	return func(yield func(ProgressEvent, error) bool) {
		if n.opts.Discovery == nil || n.opts.Invoker == nil {
			yield(ProgressEvent{}, fmt.Errorf("node %s: %w", n.id, ErrNodeNotBound))
			return
		}

		ctx, span := tracer().Start(ctx, "workflow.node.run", trace.WithAttributes(
			attribute.String("node.id", n.id),
			attribute.String("node.key", n.opts.Key),
		))
		var runErr error
		defer func() { endSpan(span, runErr) }()

		n.setAgent(nil)
		agent, err := n.resolve(ctx)
		if err != nil {
			if !errors.Is(err, core.ErrAgentNotFound) {
				runErr = fmt.Errorf("resolve agent for node %s: %w", n.id, err)
				yield(ProgressEvent{}, runErr)
				return
			}
			n.logger().Warn("No agent found for node", "node_id", n.id, "task", n.task, "error", err)
			if n.opts.StrictResolution {
				runErr = fmt.Errorf("node %s: %w: %w", n.id, ErrResolutionFailed, err)
				yield(ProgressEvent{}, runErr)
			}
			return
		}
		n.setAgent(agent)
		if onResolved != nil {
			onResolved()
		}
		span.SetAttributes(attribute.String("agent.name", agent.Name), attribute.String("agent.url", agent.URL))
		n.logger().Debug("Resolved agent", "node_id", n.id, "agent", agent.Name, "url", agent.URL)

		msg := core.NewUserMessage(query, taskID, contextID)
		for ev, err := range n.opts.Invoker.Invoke(ctx, agent, msg) {
			if err != nil {
				runErr = core.NewInvocationError(agent.Name, err)
				yield(ProgressEvent{}, runErr)
				return
			}
			pe, ok := translate(n.id, ev)
			if !ok {
				continue
			}
			if pe.Artifact != nil {
				n.setResults(pe.Artifact)
			}
			if !yield(pe, nil) {
				return
			}
		}
	}
}
