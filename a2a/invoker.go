package a2a

import (
	"context"
	"fmt"
	"iter"
	"time"

	a2acore "github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2aclient"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
)

// Client is the part of the a2a-go client used by Invoker.
type Client interface {
	SendStreamingMessage(ctx context.Context, params *a2acore.MessageSendParams) iter.Seq2[a2acore.Event, error]
	Destroy() error
}

// ClientFactory opens a client for an agent card.
type ClientFactory func(ctx context.Context, card *a2acore.AgentCard) (Client, error)

// NewClientFactory returns a factory backed by a2aclient.NewFromCard.
func NewClientFactory(opts ...a2aclient.FactoryOption) ClientFactory {
	return func(ctx context.Context, card *a2acore.AgentCard) (Client, error) {
		return a2aclient.NewFromCard(ctx, card, opts...)
	}
}

// InvokerOptions configures an Invoker.
type InvokerOptions struct {
	// Timeout bounds a single streaming call. Zero means no limit beyond ctx.
	Timeout time.Duration
	// Factory creates clients. Defaults to NewClientFactory().
	Factory ClientFactory
	Logger  logging.Logger
}

// Invoker implements core.Invoker over A2A streaming messages.
type Invoker struct {
	opts InvokerOptions
}

// NewInvoker creates an A2A invoker.
func NewInvoker(optFns ...func(o *InvokerOptions)) *Invoker {
	opts := InvokerOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Factory == nil {
		opts.Factory = NewClientFactory()
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Invoker{opts: opts}
}

// Invoke implements core.Invoker. The client is created lazily on first
// iteration and destroyed when the sequence ends or the consumer stops.
func (i *Invoker) Invoke(ctx context.Context, agent *core.AgentDescriptor, msg core.Message) iter.Seq2[core.RemoteEvent, error] {
	return func(yield func(core.RemoteEvent, error) bool) {
		if agent == nil {
			yield(nil, &core.InvocationError{Err: fmt.Errorf("nil agent descriptor")})
			return
		}
		if i.opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, i.opts.Timeout)
			defer cancel()
		}

		client, err := i.opts.Factory(ctx, AgentCard(agent))
		if err != nil {
			yield(nil, core.NewInvocationError(agent.Name, fmt.Errorf("create client: %w", err)))
			return
		}
		defer func() {
			if err := client.Destroy(); err != nil {
				i.opts.Logger.Warn("Destroy A2A client", "agent", agent.Name, "error", err)
			}
		}()

		params := &a2acore.MessageSendParams{Message: toWireMessage(msg)}
		i.opts.Logger.Debug("Sending streaming message", "agent", agent.Name, "url", agent.URL, "task_id", msg.TaskID, "context_id", msg.ContextID)

		for ev, err := range client.SendStreamingMessage(ctx, params) {
			if err != nil {
				yield(nil, core.NewInvocationError(agent.Name, err))
				return
			}
			translated := translate(ev)
			if len(translated) == 0 {
				i.opts.Logger.Debug("Skipping protocol event", "agent", agent.Name, "type", fmt.Sprintf("%T", ev))
				continue
			}
			for _, re := range translated {
				if !yield(re, nil) {
					return
				}
			}
		}
	}
}
