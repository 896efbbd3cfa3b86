// Package config loads the agentgraph configuration from defaults, an
// optional YAML or JSON file and AGENTGRAPH_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hupe1980/agentgraph/tracing"
)

// EnvPrefix prefixes every environment variable, e.g. AGENTGRAPH_LOG_LEVEL.
const EnvPrefix = "AGENTGRAPH"

// Config is the complete configuration.
type Config struct {
	Log          LogConfig          `mapstructure:"log"`
	Discovery    DiscoveryConfig    `mapstructure:"discovery"`
	Planner      PlannerConfig      `mapstructure:"planner"`
	A2A          A2AConfig          `mapstructure:"a2a"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Tracing      tracing.Config     `mapstructure:"tracing"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DiscoveryConfig configures the agent card index.
type DiscoveryConfig struct {
	CardsDir      string          `mapstructure:"cards_dir"`
	Collection    string          `mapstructure:"collection"`
	PersistPath   string          `mapstructure:"persist_path"`
	MinSimilarity float32         `mapstructure:"min_similarity"`
	CacheSize     int             `mapstructure:"cache_size"`
	PlannerCard   string          `mapstructure:"planner_card"`
	Embedding     EmbeddingConfig `mapstructure:"embedding"`
}

// EmbeddingConfig selects the embedding provider of the index.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	CacheSize  int    `mapstructure:"cache_size"`
	Dimensions int    `mapstructure:"dimensions"`
}

// PlannerConfig configures the planner model.
type PlannerConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int64   `mapstructure:"max_tokens"`
}

// A2AConfig configures the remote agent transport.
type A2AConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// OrchestratorConfig configures workflow execution.
type OrchestratorConfig struct {
	Summarize        bool `mapstructure:"summarize"`
	StrictResolution bool `mapstructure:"strict_resolution"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("discovery.cards_dir", "agent_cards")
	v.SetDefault("discovery.collection", "agent_cards")
	v.SetDefault("discovery.persist_path", "")
	v.SetDefault("discovery.min_similarity", 0.0)
	v.SetDefault("discovery.cache_size", 128)
	v.SetDefault("discovery.planner_card", "planner_agent")
	v.SetDefault("discovery.embedding.provider", "hashing")
	v.SetDefault("discovery.embedding.model", "")
	v.SetDefault("discovery.embedding.api_key", "")
	v.SetDefault("discovery.embedding.base_url", "")
	v.SetDefault("discovery.embedding.cache_size", 512)
	v.SetDefault("discovery.embedding.dimensions", 256)

	v.SetDefault("planner.provider", "openai")
	v.SetDefault("planner.model", "")
	v.SetDefault("planner.api_key", "")
	v.SetDefault("planner.base_url", "")
	v.SetDefault("planner.temperature", 0.0)
	v.SetDefault("planner.max_tokens", 4096)

	v.SetDefault("a2a.timeout", "5m")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", tracing.ExporterOTLP)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.service_name", "agentgraph")
	v.SetDefault("tracing.service_version", "")

	v.SetDefault("orchestrator.summarize", false)
	v.SetDefault("orchestrator.strict_resolution", false)
}

// New returns a viper instance with defaults and environment binding. When
// file is empty, agentgraph.{yaml,yml,json} is looked up in the working
// directory and $HOME/.agentgraph; a missing file is not an error.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("agentgraph")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.agentgraph")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is New followed by Decode.
func Load(file string) (*Config, error) {
	v, err := New(file)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Planner.Provider) {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("planner.provider: unsupported provider %q", c.Planner.Provider)
	}
	switch strings.ToLower(c.Discovery.Embedding.Provider) {
	case "openai", "hashing":
	default:
		return fmt.Errorf("discovery.embedding.provider: unsupported provider %q", c.Discovery.Embedding.Provider)
	}
	if c.Discovery.MinSimilarity < -1 || c.Discovery.MinSimilarity > 1 {
		return fmt.Errorf("discovery.min_similarity: %v is outside [-1, 1]", c.Discovery.MinSimilarity)
	}
	if c.A2A.Timeout < 0 {
		return fmt.Errorf("a2a.timeout: must not be negative")
	}
	return nil
}
