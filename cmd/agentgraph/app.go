package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentgraph"
	"github.com/hupe1980/agentgraph/a2a"
	"github.com/hupe1980/agentgraph/config"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/discovery"
	"github.com/hupe1980/agentgraph/embedding"
	"github.com/hupe1980/agentgraph/localagent"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/metrics"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/model/anthropic"
	"github.com/hupe1980/agentgraph/model/openai"
	"github.com/hupe1980/agentgraph/planner"
	"github.com/hupe1980/agentgraph/tracing"
)

// app holds the components built from the configuration.
type app struct {
	cfg     *config.Config
	logger  *logging.WorkflowLogger
	index   *discovery.Index
	planner *planner.Agent
	graph   *agentgraph.AgentGraph

	closers []func(context.Context) error
}

func newLogger(cfg config.LogConfig) (*logging.WorkflowLogger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewSlogLogger(level, cfg.Format, false), nil
}

// newIndex loads the card corpus. A planner card is added when the corpus
// has none so that planner nodes resolve to the in-process planner.
func newIndex(ctx context.Context, cfg config.DiscoveryConfig, logger logging.Logger) (*discovery.Index, error) {
	embedder, err := embedding.New(embedding.Config{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		CacheSize:  cfg.Embedding.CacheSize,
		Dimensions: cfg.Embedding.Dimensions,
	})
	if err != nil {
		return nil, err
	}
	index, err := discovery.NewIndexFromDir(ctx, cfg.CardsDir, embedder, func(o *discovery.IndexOptions) {
		o.Collection = cfg.Collection
		o.PersistPath = cfg.PersistPath
		o.MinSimilarity = cfg.MinSimilarity
		o.Logger = logger
	})
	if err != nil {
		return nil, fmt.Errorf("load agent cards: %w", err)
	}

	if _, err := index.ResolveWellKnown(ctx, cfg.PlannerCard); errors.Is(err, core.ErrAgentNotFound) {
		err = index.Add(ctx, discovery.Card{
			Name:         cfg.PlannerCard,
			Description:  "Breaks a request down into an ordered list of executable tasks",
			URL:          localagent.URL(planner.DefaultName),
			Capabilities: discovery.Capabilities{Streaming: true},
		})
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return index, nil
}

func newModel(cfg config.PlannerConfig) model.Model {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxTokens = cfg.MaxTokens
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		})
	default:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = cfg.MaxTokens
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
		})
	}
}

func agentLines(cards []discovery.Card, skip string) []string {
	lines := make([]string, 0, len(cards))
	for _, c := range cards {
		if c.Name == skip {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", c.Name, c.Description))
	}
	return lines
}

// newApp builds every component. Close must be called when done.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	shutdown, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdown)

	a.index, err = newIndex(ctx, cfg.Discovery, logger.WithComponent("discovery"))
	if err != nil {
		return nil, err
	}

	m := newModel(cfg.Planner)
	a.planner, err = planner.New(m, func(o *planner.Options) {
		o.Agents = agentLines(a.index.Cards(), cfg.Discovery.PlannerCard)
		o.Logger = logger.WithComponent("planner")
	})
	if err != nil {
		return nil, err
	}

	cached, err := discovery.NewCached(a.index, cfg.Discovery.CacheSize)
	if err != nil {
		return nil, err
	}

	var recorder *metrics.Metrics
	if cfg.Metrics.Enabled {
		recorder = metrics.MustNewMetrics(nil)
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler(nil), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", "addr", cfg.Metrics.Addr, "error", err)
			}
		}()
		a.closers = append(a.closers, srv.Shutdown)
	}

	a.graph = agentgraph.New(cached, func(o *agentgraph.Options) {
		o.Remote = a2a.NewInvoker(func(inv *a2a.InvokerOptions) {
			inv.Timeout = cfg.A2A.Timeout
			inv.Logger = logger.WithComponent("a2a")
		})
		o.PlannerCard = cfg.Discovery.PlannerCard
		o.StrictResolution = cfg.Orchestrator.StrictResolution
		if cfg.Orchestrator.Summarize {
			o.Summarizer = m
		}
		if recorder != nil {
			o.Recorder = recorder
		}
		o.Logger = logger
	})
	a.graph.RegisterAgent(a.planner)
	return a, nil
}

// Close releases the resources of the app in reverse order.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("Shutdown failed", "error", err)
		}
	}
}
