// Package agentgraph provides a high-level façade over the orchestrator and
// its collaborators (discovery, transports, sessions, artifacts & logging)
// for building planned multi-agent workflows. Most applications interact
// with this package by:
//  1. Creating an AgentGraph via New() with a Discovery over their agent cards
//  2. Registering in-process agents, typically a planner.Agent
//  3. Streaming user messages per conversation context (Stream or StreamSync)
//
// Agents that are not registered locally are reached over A2A. All defaults
// are in-memory and safe for local development and testing.
package agentgraph

import (
	"context"
	"iter"

	"github.com/hupe1980/agentgraph/a2a"
	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/localagent"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/orchestrator"
	"github.com/hupe1980/agentgraph/session"
	"github.com/hupe1980/agentgraph/workflow"
)

// Options configures the AgentGraph instance.
type Options struct {
	// Remote invokes agents that are not registered locally. Defaults to an
	// A2A invoker.
	Remote core.Invoker

	// PlannerCard is the well-known card name resolved for planner nodes.
	PlannerCard string
	// StrictResolution fails a run when a task cannot be matched to an agent.
	StrictResolution bool
	// Summarizer, when set, answers the original request from the results of
	// a completed workflow.
	Summarizer model.Model

	// Stores (default to in-memory implementations if not provided)
	SessionStore  session.Store
	ArtifactStore core.ArtifactStore

	Recorder workflow.Recorder
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentGraph is the high-level façade aggregating the orchestrator and the
// local agent router.
type AgentGraph struct {
	opts   Options
	router *localagent.Router
	orch   *orchestrator.Orchestrator
}

// New creates a new AgentGraph resolving agents through discovery.
func New(discovery core.Discovery, optFns ...func(o *Options)) *AgentGraph {
	opts := Options{
		PlannerCard:   workflow.DefaultPlannerCard,
		SessionStore:  session.NewInMemoryStore(),
		ArtifactStore: artifact.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Remote == nil {
		opts.Remote = a2a.NewInvoker(func(o *a2a.InvokerOptions) { o.Logger = opts.Logger })
	}

	router := localagent.NewRouter(opts.Remote)
	orch := orchestrator.New(discovery, router, func(o *orchestrator.Options) {
		o.PlannerCard = opts.PlannerCard
		o.StrictResolution = opts.StrictResolution
		o.Summarizer = opts.Summarizer
		o.Sessions = opts.SessionStore
		o.Artifacts = opts.ArtifactStore
		o.Recorder = opts.Recorder
		o.Logger = opts.Logger
	})
	return &AgentGraph{opts: opts, router: router, orch: orch}
}

// RegisterAgent adds an in-process agent. Discovery must resolve it to a
// descriptor whose URL is localagent.URL(a.Name()).
func (g *AgentGraph) RegisterAgent(a localagent.Agent) { g.router.Register(a) }

// Invoker returns the invoker used for nodes: local agents first, then the
// remote transport.
func (g *AgentGraph) Invoker() core.Invoker { return g.router }

// Session returns the workflow session of a conversation context.
func (g *AgentGraph) Session(contextID string) (*session.Session, error) {
	return g.orch.Session(contextID)
}

// Stream handles one user message of a conversation context and yields the
// progress of the workflow. See orchestrator.Orchestrator.Stream.
func (g *AgentGraph) Stream(ctx context.Context, contextID, query string) iter.Seq2[workflow.ProgressEvent, error] {
	return g.orch.Stream(ctx, contextID, query)
}

// StreamSync is a synchronous helper that drains Stream and returns the
// collected events. Events received before an error are returned with it.
func (g *AgentGraph) StreamSync(ctx context.Context, contextID, query string) ([]workflow.ProgressEvent, error) {
	var events []workflow.ProgressEvent
	for ev, err := range g.orch.Stream(ctx, contextID, query) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}
