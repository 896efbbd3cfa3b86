package a2a

import (
	"context"
	"fmt"

	a2acore "github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/a2aproject/a2a-go/a2asrv/eventqueue"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/localagent"
)

// agentExecutor serves an in-process agent through an a2a-go server.
type agentExecutor struct {
	agent localagent.Agent
}

// NewAgentExecutor creates an executor running agent for every request.
func NewAgentExecutor(agent localagent.Agent) a2asrv.AgentExecutor {
	return &agentExecutor{agent: agent}
}

// Execute runs the agent with the request message and writes its events to
// the queue in protocol form.
//
// Returns an error if the agent or the queue failed.
func (ae *agentExecutor) Execute(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	msg := core.Message{ID: core.NewID(), Role: core.RoleUser, TaskID: string(reqCtx.TaskID), ContextID: reqCtx.ContextID}
	if reqCtx.Message != nil {
		if m := fromWireMessage(reqCtx.Message); m != nil {
			msg.Parts = m.Parts
		}
	}

	for ev, err := range ae.agent.Run(ctx, msg) {
		if err != nil {
			return fmt.Errorf("agent %s: %w", ae.agent.Name(), err)
		}
		wire := toWireEvent(ev, reqCtx.TaskID, reqCtx.ContextID)
		if wire == nil {
			continue
		}
		if err := queue.Write(ctx, wire); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}
	return nil
}

// Cancel publishes a canceled status for the task in the request context.
func (ae *agentExecutor) Cancel(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	return queue.Write(ctx, &a2acore.TaskStatusUpdateEvent{
		TaskID:    reqCtx.TaskID,
		ContextID: reqCtx.ContextID,
		Status:    a2acore.TaskStatus{State: a2acore.TaskStateCanceled},
		Final:     true,
	})
}
