package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/planner"
	"github.com/hupe1980/agentgraph/session"
	"github.com/hupe1980/agentgraph/workflow"
)

// ErrBusy is returned when a context already has a stream in progress.
var ErrBusy = errors.New("context is busy")

// DefaultSummaryInstructions is the system prompt of the summarizer.
const DefaultSummaryInstructions = `You are a helpful assistant. Using the results of the completed tasks,
write a short, well structured answer to the user's original request.`

// Options configures an Orchestrator.
type Options struct {
	// PlannerCard is the well-known card name resolved for planner nodes.
	PlannerCard      string
	StrictResolution bool
	// Summarizer, when set, turns the collected results of a completed
	// workflow into a final text event.
	Summarizer          model.Model
	SummaryInstructions string

	Sessions  session.Store
	Artifacts core.ArtifactStore
	Recorder  workflow.Recorder
	Logger    logging.Logger
}

// Orchestrator runs planned workflows per conversation context.
type Orchestrator struct {
	discovery core.Discovery
	invoker   core.Invoker
	opts      Options

	mu     sync.Mutex
	active map[string]struct{}
}

// New creates an Orchestrator.
func New(discovery core.Discovery, invoker core.Invoker, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		PlannerCard:         workflow.DefaultPlannerCard,
		SummaryInstructions: DefaultSummaryInstructions,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewInMemoryStore()
	}
	if opts.Artifacts == nil {
		opts.Artifacts = artifact.NewInMemoryStore()
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Orchestrator{
		discovery: discovery,
		invoker:   invoker,
		opts:      opts,
		active:    make(map[string]struct{}),
	}
}

// Session returns the session of a context.
func (o *Orchestrator) Session(contextID string) (*session.Session, error) {
	return o.opts.Sessions.Get(contextID)
}

// Artifacts returns the artifact store results are saved to.
func (o *Orchestrator) Artifacts() core.ArtifactStore { return o.opts.Artifacts }

// Stream handles one user message of the conversation contextID.
//
// When the context's graph is paused, query answers the paused node and the
// graph resumes from it. Otherwise a new graph with a planner node is
// created for query. A task list produced by the planner is appended as a
// chain of nodes after the latest node and run once the current run ends.
// Completed artifacts are saved to the artifact store and the session.
func (o *Orchestrator) Stream(ctx context.Context, contextID, query string) iter.Seq2[workflow.ProgressEvent, error] {
	return func(yield func(workflow.ProgressEvent, error) bool) {
		if contextID == "" {
			contextID = core.NewID()
		}
		if !o.acquire(contextID) {
			yield(workflow.ProgressEvent{}, fmt.Errorf("%w: %s", ErrBusy, contextID))
			return
		}
		defer o.release(contextID)

		log := o.runLogger(contextID)
		start := time.Now()
		sess, _ := o.opts.Sessions.GetOrCreate(contextID)
		resumed := sess.Paused()

		g, startID, err := o.prepare(sess, query)
		if err != nil {
			yield(workflow.ProgressEvent{}, err)
			return
		}
		log.Info("Workflow stream started", "start_node", startID, "resumed", resumed)

		var runErr error
		defer func() {
			if wl, ok := log.(*logging.WorkflowLogger); ok {
				wl.LogRun(len(g.Nodes()), g.State().String(), time.Since(start), runErr)
			}
		}()

		for startID != "" {
			var (
				plan     *planner.TaskList
				planNode string
				pause    *workflow.ProgressEvent
			)
			for ev, err := range g.Run(ctx, startID) {
				if err != nil {
					runErr = err
					yield(workflow.ProgressEvent{}, err)
					return
				}
				o.collect(sess, contextID, ev)
				if ev.Data != nil {
					if n, ok := g.Node(ev.NodeID); ok && n.IsPlanner() {
						if l, ok := planner.DecodeTaskList(ev.Data); ok {
							plan, planNode = l, n.ID()
						}
					}
				}
				if ev.RequiresInput() {
					pause = &ev
				}
				if !yield(ev, nil) {
					return
				}
			}

			startID = ""
			switch {
			case pause != nil:
				if err := g.SetNodeAttributes(pause.NodeID, map[string]any{
					workflow.AttrTaskID:    pause.TaskID,
					workflow.AttrContextID: pause.ContextID,
				}); err != nil {
					runErr = err
					yield(workflow.ProgressEvent{}, err)
					return
				}
				log.Info("Workflow paused for input", "node_id", pause.NodeID)
			case plan != nil:
				first, err := o.expand(g, plan)
				if err != nil {
					runErr = err
					yield(workflow.ProgressEvent{}, err)
					return
				}
				log.Info("Plan expanded", "planner_node", planNode, "tasks", len(plan.Descriptions()))
				startID = first
			}
		}

		if g.State() != core.StatusCompleted || o.opts.Summarizer == nil {
			return
		}
		summary, err := o.summarize(ctx, sess)
		if err != nil {
			runErr = err
			yield(workflow.ProgressEvent{}, err)
			return
		}
		if summary != "" {
			yield(workflow.ProgressEvent{
				Kind:      workflow.EventText,
				Complete:  true,
				Content:   summary,
				ContextID: contextID,
			}, nil)
		}
	}
}

// prepare returns the graph to run and the node to start from.
func (o *Orchestrator) prepare(sess *session.Session, query string) (*workflow.Graph, string, error) {
	if g := sess.Graph(); g != nil && g.State() == core.StatusPaused {
		id := g.PausedNodeID()
		if err := g.SetNodeAttribute(id, workflow.AttrQuery, query); err != nil {
			return nil, "", err
		}
		return g, id, nil
	}

	g := workflow.NewGraph(o.discovery, o.invoker, func(gopts *workflow.GraphOptions) {
		gopts.Logger = o.opts.Logger
		gopts.Recorder = o.opts.Recorder
		gopts.StrictResolution = o.opts.StrictResolution
	})
	root := workflow.NewPlannerNode(query, func(nopts *workflow.NodeOptions) {
		nopts.PlannerCard = o.opts.PlannerCard
	})
	if err := g.AddNode(root); err != nil {
		return nil, "", err
	}
	sess.Query = query
	sess.SetGraph(g)
	return g, root.ID(), nil
}

// expand appends one node per task, chained after the latest node, and
// returns the id of the first new node.
func (o *Orchestrator) expand(g *workflow.Graph, plan *planner.TaskList) (string, error) {
	var first string
	prev := g.LatestNodeID()
	for _, task := range plan.Descriptions() {
		n := workflow.NewNode(task)
		if err := g.AddNode(n); err != nil {
			return "", err
		}
		if prev != "" {
			if err := g.AddEdge(prev, n.ID()); err != nil {
				return "", err
			}
		}
		if first == "" {
			first = n.ID()
		}
		prev = n.ID()
	}
	return first, nil
}

func (o *Orchestrator) collect(sess *session.Session, contextID string, ev workflow.ProgressEvent) {
	if !ev.Complete || ev.Artifact == nil {
		return
	}
	sess.AddResult(ev.Artifact)
	if err := o.opts.Artifacts.Save(contextID, ev.Artifact); err != nil {
		o.opts.Logger.Warn("Failed to save artifact", "context_id", contextID, "artifact_id", ev.Artifact.ID, "error", err)
	}
}

func (o *Orchestrator) summarize(ctx context.Context, sess *session.Session) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Original request: %s\n\nTask results:\n", sess.Query)
	count := 0
	for _, a := range sess.Results() {
		if _, isPlan := planner.DecodeTaskList(dataOf(a)); isPlan {
			continue
		}
		count++
		fmt.Fprintf(&b, "\n[%d] %s\n", count, artifactText(a))
	}
	if count == 0 {
		return "", nil
	}
	out, err := model.Collect(ctx, o.opts.Summarizer, model.UserText(o.opts.SummaryInstructions, b.String()))
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func dataOf(a *core.Artifact) map[string]any {
	if dp, ok := a.PrimaryPart().(core.DataPart); ok {
		return dp.Data
	}
	return nil
}

func artifactText(a *core.Artifact) string {
	var parts []string
	for _, p := range a.Parts {
		switch v := p.(type) {
		case core.TextPart:
			parts = append(parts, v.Text)
		case core.DataPart:
			if b, err := json.Marshal(v.Data); err == nil {
				parts = append(parts, string(b))
			}
		case core.FilePart:
			parts = append(parts, fmt.Sprintf("file %s", v.File.Name))
		}
	}
	text := strings.Join(parts, "\n")
	if a.Name != "" {
		text = a.Name + ": " + text
	}
	return text
}

func (o *Orchestrator) acquire(contextID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.active[contextID]; busy {
		return false
	}
	o.active[contextID] = struct{}{}
	return true
}

func (o *Orchestrator) release(contextID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, contextID)
}

func (o *Orchestrator) runLogger(contextID string) logging.Logger {
	if wl, ok := o.opts.Logger.(*logging.WorkflowLogger); ok {
		return wl.WithComponent("orchestrator").WithRun(contextID, core.NewID())
	}
	return o.opts.Logger
}
