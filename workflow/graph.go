package workflow

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
)

// Well-known node attribute keys read by Graph.Run.
const (
	AttrQuery     = "query"
	AttrTaskID    = "task_id"
	AttrContextID = "context_id"
)

// GraphOptions configures a Graph.
type GraphOptions struct {
	Logger   logging.Logger
	Recorder Recorder
	// StrictResolution makes a node whose agent cannot be resolved fail the
	// run with ErrResolutionFailed instead of being skipped.
	StrictResolution bool
}

// WithStrictResolution enables strict resolution on a graph.
func WithStrictResolution() func(o *GraphOptions) {
	return func(o *GraphOptions) { o.StrictResolution = true }
}

// Graph is a directed acyclic graph of Nodes. Mutations (AddNode, AddEdge,
// SetNodeAttribute) must not happen while a run is in progress; reads are
// safe from any goroutine.
type Graph struct {
	discovery core.Discovery
	invoker   core.Invoker
	opts      GraphOptions

	mu       sync.RWMutex
	nodes    map[string]*Node
	order    []string
	index    map[string]int
	succ     map[string][]string
	attrs    map[string]map[string]any
	state    core.Status
	pausedID string
	latestID string
}

// NewGraph creates an empty graph in state Initialized. discovery and invoker
// are bound to every added node that lacks its own.
func NewGraph(discovery core.Discovery, invoker core.Invoker, optFns ...func(o *GraphOptions)) *Graph {
	opts := GraphOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.Recorder == nil {
		opts.Recorder = noopRecorder{}
	}
	return &Graph{
		discovery: discovery,
		invoker:   invoker,
		opts:      opts,
		nodes:     make(map[string]*Node),
		index:     make(map[string]int),
		succ:      make(map[string][]string),
		attrs:     make(map[string]map[string]any),
		state:     core.StatusInitialized,
	}
}

// AddNode inserts a node and makes it the latest node. The node's query
// attribute is initialised to its task.
func (g *Graph) AddNode(n *Node) error {
	if n == nil {
		return errors.New("nil node")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[n.ID()]; ok {
		return &GraphError{Kind: ErrDuplicateNode, Msg: n.ID()}
	}
	n.bind(g.discovery, g.invoker, g.opts.Logger, g.opts.StrictResolution)
	g.nodes[n.ID()] = n
	g.index[n.ID()] = len(g.order)
	g.order = append(g.order, n.ID())
	g.attrs[n.ID()] = map[string]any{AttrQuery: n.Task()}
	g.latestID = n.ID()
	return nil
}

// AddEdge records that to depends on from. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[from]; !ok {
		return unknownNode(from)
	}
	if _, ok := g.nodes[to]; !ok {
		return unknownNode(to)
	}
	if from == to {
		return &GraphError{Kind: ErrSelfLoop, Msg: from}
	}
	if slices.Contains(g.succ[from], to) {
		return nil
	}
	g.succ[from] = append(g.succ[from], to)
	return nil
}

// SetNodeAttribute sets a single attribute of a node.
func (g *Graph) SetNodeAttribute(id, key string, value any) error {
	return g.SetNodeAttributes(id, map[string]any{key: value})
}

// SetNodeAttributes merges attrs into the attributes of a node.
func (g *Graph) SetNodeAttributes(id string, attrs map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.attrs[id]
	if !ok {
		return unknownNode(id)
	}
	maps.Copy(m, attrs)
	return nil
}

// NodeAttributes returns a copy of the attributes of a node.
func (g *Graph) NodeAttributes(id string) (map[string]any, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.attrs[id]
	if !ok {
		return nil, unknownNode(id)
	}
	return maps.Clone(m), nil
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order) == 0
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Successors returns the direct successors of a node in edge insertion order.
func (g *Graph) Successors(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.succ[id])
}

// State returns the graph state.
func (g *Graph) State() core.Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// PausedNodeID returns the id of the node waiting for input, or "".
func (g *Graph) PausedNodeID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pausedID
}

// LatestNodeID returns the id of the most recently added node, or "".
func (g *Graph) LatestNodeID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.latestID
}

// TopologicalOrder returns every node id in execution order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.topoOrder()
}

func (g *Graph) setState(s core.Status) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// plan returns the nodes to execute for a run starting at startID. An empty
// or unknown startID starts from every source.
func (g *Graph) plan(startID string) ([]*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}
	var seeds []string
	if _, ok := g.nodes[startID]; ok {
		seeds = []string{startID}
	} else {
		seeds = g.sources()
	}
	applicable := g.descendants(seeds)

	out := make([]*Node, 0, len(applicable))
	for _, id := range order {
		if _, ok := applicable[id]; ok {
			out = append(out, g.nodes[id])
		}
	}
	return out, nil
}

// nodeRunLogger is implemented by loggers that record node runs as
// structured entries, such as logging.WorkflowLogger.
type nodeRunLogger interface {
	LogNodeRun(nodeID, agent, status string, dur time.Duration, err error)
}

type runInput struct {
	query, taskID, contextID string
}

func (g *Graph) runInput(n *Node) runInput {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a := g.attrs[n.ID()]
	in := runInput{query: n.Task()}
	if v, ok := a[AttrQuery]; ok && v != nil {
		in.query = fmt.Sprint(v)
	}
	if v, ok := a[AttrTaskID]; ok && v != nil {
		in.taskID = fmt.Sprint(v)
	}
	if v, ok := a[AttrContextID]; ok && v != nil {
		in.contextID = fmt.Sprint(v)
	}
	return in
}

// Run executes the node startNodeID and its descendants, or the whole graph
// from its sources when startNodeID is empty or unknown, yielding the
// progress events of every node in order.
//
// The first event that requires input pauses the node and the graph. The
// paused node's remaining events are drained without being forwarded and no
// further node starts. A cycle yields a single error wrapping
// ErrGraphNotAcyclic and leaves the graph untouched. Errors from a node end
// the run with the graph left Running.
func (g *Graph) Run(ctx context.Context, startNodeID string) iter.Seq2[ProgressEvent, error] {
	return func(yield func(ProgressEvent, error) bool) {
		nodes, err := g.plan(startNodeID)
		if err != nil {
			yield(ProgressEvent{}, err)
			return
		}

		ctx, span := tracer().Start(ctx, "workflow.graph.run", trace.WithAttributes(
			attribute.String("workflow.start_node", startNodeID),
			attribute.Int("workflow.node_count", len(nodes)),
		))
		start := time.Now()
		outcome := OutcomeCanceled
		var runErr error
		defer func() {
			g.opts.Recorder.ObserveGraphRun(outcome)
			g.opts.Logger.Info("Workflow run finished", "start_node", startNodeID, "nodes", len(nodes), "status", g.State().String(), "outcome", outcome, "duration", time.Since(start))
			endSpan(span, runErr)
		}()

		g.mu.Lock()
		g.state = core.StatusRunning
		g.pausedID = ""
		g.mu.Unlock()

		for _, n := range nodes {
			if err := ctx.Err(); err != nil {
				outcome, runErr = OutcomeCanceled, err
				yield(ProgressEvent{}, err)
				return
			}
			cont, paused, err := g.runNode(ctx, n, yield)
			if err != nil {
				outcome, runErr = OutcomeFailed, err
				return
			}
			if !cont {
				return
			}
			if paused {
				outcome = OutcomePaused
				return
			}
		}

		g.mu.Lock()
		if g.state == core.StatusRunning {
			g.state = core.StatusCompleted
		}
		g.mu.Unlock()
		outcome = OutcomeCompleted
	}
}

// runNode drives one node. cont is false when the consumer stopped iterating
// or an error was yielded.
func (g *Graph) runNode(ctx context.Context, n *Node, yield func(ProgressEvent, error) bool) (cont, paused bool, err error) {
	in := g.runInput(n)
	start := time.Now()
	outcome := OutcomeCanceled
	defer func() {
		dur := time.Since(start)
		g.opts.Recorder.ObserveNodeRun(outcome, dur)
		if nl, ok := g.opts.Logger.(nodeRunLogger); ok {
			agent := ""
			if a := n.Agent(); a != nil {
				agent = a.Name
			}
			nl.LogNodeRun(n.ID(), agent, outcome, dur, err)
		}
	}()

	running := func() { n.setState(core.StatusRunning) }
	for ev, evErr := range n.run(ctx, in.query, in.taskID, in.contextID, running) {
		if evErr != nil {
			if errors.Is(evErr, ErrResolutionFailed) {
				n.resetPaused()
				outcome = OutcomeUnresolved
			} else {
				outcome = OutcomeFailed
			}
			g.opts.Logger.Error("Node run failed", "node_id", n.ID(), "error", evErr)
			yield(ProgressEvent{}, evErr)
			return false, false, evErr
		}
		if paused {
			continue
		}
		if ev.RequiresInput() {
			paused = true
			n.setState(core.StatusPaused)
			g.mu.Lock()
			g.state = core.StatusPaused
			g.pausedID = n.ID()
			g.mu.Unlock()
			g.opts.Recorder.IncPause()
		}
		if !yield(ev, nil) {
			return false, paused, nil
		}
	}

	switch {
	case paused:
		outcome = OutcomePaused
	case n.Agent() == nil:
		n.resetPaused()
		outcome = OutcomeUnresolved
	case n.State() == core.StatusRunning:
		n.setState(core.StatusCompleted)
		outcome = OutcomeCompleted
	}
	g.opts.Logger.Debug("Node finished", "node_id", n.ID(), "state", n.State().String(), "outcome", outcome)
	return true, paused, nil
}
