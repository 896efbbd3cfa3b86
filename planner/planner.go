package planner

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/internal/util"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
)

// DefaultName matches the well-known planner card resolved for planner nodes.
const DefaultName = "planner_agent"

// DefaultInstructions is the system prompt template. It is rendered with
// the available agents and the reply schema.
const DefaultInstructions = `You are an expert planner. Break the user's request down into a short,
ordered list of tasks. Each task is executed by exactly one specialised agent
and may use the results of the tasks before it.
{{if .Agents}}
Available agents:
{{range .Agents}}- {{.}}
{{end}}{{end}}
If details that are essential to plan the request are missing, ask exactly one
clarifying question. Do not ask about details that have already been given.

Respond with a single JSON object that matches this schema:
{{json .Schema}}`

// Messages reported to the caller.
const (
	WorkingText     = "Planning the tasks..."
	UnavailableText = "We are unable to process your request at the moment. Please try again."
)

// Options configures the planner Agent.
type Options struct {
	Name string
	// Instructions is a prompt template; see DefaultInstructions.
	Instructions string
	// Agents lists the agents the plan may target, one line each.
	Agents []string
	// HistorySize bounds the number of conversations kept for follow-up
	// answers.
	HistorySize int
	Logger      logging.Logger
}

// Agent is the planner. It keeps the conversation of every context until a
// plan is produced so that answers to clarifying questions are planned
// together with the original request.
type Agent struct {
	model model.Model
	opts  Options

	mu      sync.Mutex
	history *lru.Cache[string, []core.Content]
}

// New creates a planner agent backed by m.
func New(m model.Model, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		Name:         DefaultName,
		Instructions: DefaultInstructions,
		HistorySize:  256,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.HistorySize <= 0 {
		opts.HistorySize = 256
	}

	history, err := lru.New[string, []core.Content](opts.HistorySize)
	if err != nil {
		return nil, err
	}
	return &Agent{model: m, opts: opts, history: history}, nil
}

// Name implements localagent.Agent.
func (a *Agent) Name() string { return a.opts.Name }

// Plan sends query to the model as the next turn of the conversation of
// contextID and returns the decoded reply.
func (a *Agent) Plan(ctx context.Context, contextID, query string) (*Reply, error) {
	instructions, err := util.RenderTemplate(a.opts.Instructions, map[string]any{
		"Agents": a.opts.Agents,
		"Schema": replySchema,
	})
	if err != nil {
		return nil, err
	}

	if !strings.Contains(strings.ToLower(query), "json") {
		query += "\n\nPlease respond in valid JSON."
	}
	turn := core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: query}}}

	a.mu.Lock()
	past, _ := a.history.Get(contextID)
	contents := append(append([]core.Content(nil), past...), turn)
	a.mu.Unlock()

	out, err := model.Collect(ctx, a.model, model.Request{
		Instructions: instructions,
		Contents:     contents,
		JSONMode:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("planner model: %w", err)
	}
	a.opts.Logger.Debug("Planner model replied", "context_id", contextID, "output", out)

	reply, err := ParseReply(out)

	a.mu.Lock()
	if err == nil && reply.Status == StatusCompleted {
		a.history.Remove(contextID)
	} else {
		contents = append(contents, core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: out}}})
		a.history.Add(contextID, contents)
	}
	a.mu.Unlock()

	return reply, err
}

// Run implements localagent.Agent. It reports a working status, then either
// a task list artifact or an input-required status carrying the clarifying
// question.
func (a *Agent) Run(ctx context.Context, msg core.Message) iter.Seq2[core.RemoteEvent, error] {
	return func(yield func(core.RemoteEvent, error) bool) {
		taskID := msg.TaskID
		if taskID == "" {
			taskID = core.NewID()
		}
		contextID := msg.ContextID
		if contextID == "" {
			contextID = core.NewID()
		}

		if !yield(a.status(taskID, contextID, core.TaskStateWorking, WorkingText, false), nil) {
			return
		}

		reply, err := a.Plan(ctx, contextID, msg.Text())
		if err != nil {
			if ctx.Err() != nil {
				yield(nil, err)
				return
			}
			a.opts.Logger.Warn("Planner reply unusable", "context_id", contextID, "error", err)
			yield(a.status(taskID, contextID, core.TaskStateInputRequired, UnavailableText, true), nil)
			return
		}

		tasks := reply.Content.Descriptions()
		if reply.Status != StatusCompleted || len(tasks) == 0 {
			question := reply.Question
			if question == "" {
				question = UnavailableText
			}
			yield(a.status(taskID, contextID, core.TaskStateInputRequired, question, true), nil)
			return
		}

		if reply.Content.OriginalQuery == "" {
			reply.Content.OriginalQuery = msg.Text()
		}
		data, err := reply.Content.Data()
		if err != nil {
			yield(nil, err)
			return
		}
		a.opts.Logger.Info("Plan created", "context_id", contextID, "tasks", len(tasks))

		artifact := &core.Artifact{
			ID:          core.NewID(),
			Name:        "task_list",
			Description: "Tasks planned for the request",
			Parts:       []core.Part{core.DataPart{Data: data}},
		}
		yield(core.ArtifactUpdate{TaskID: taskID, ContextID: contextID, Artifact: artifact}, nil)
	}
}

func (a *Agent) status(taskID, contextID string, state core.TaskState, text string, final bool) core.StatusUpdate {
	msg := core.Message{
		ID:        core.NewID(),
		Role:      core.RoleAgent,
		TaskID:    taskID,
		ContextID: contextID,
		Parts:     []core.Part{core.TextPart{Text: text}},
	}
	return core.StatusUpdate{TaskID: taskID, ContextID: contextID, State: state, Message: &msg, Final: final}
}
