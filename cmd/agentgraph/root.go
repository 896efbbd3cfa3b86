package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/agentgraph/config"
)

type cli struct {
	configFile string
	v          *viper.Viper
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "agentgraph",
		Short: "Plan requests into agent workflows and run them",
		Long: `agentgraph breaks a request down into tasks with a planner agent, finds the
best matching agent for every task in a corpus of A2A agent cards and runs the
tasks in order, pausing whenever an agent needs more input.

Configuration is read from agentgraph.yaml (or --config) and AGENTGRAPH_*
environment variables, e.g. AGENTGRAPH_PLANNER_API_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default ./agentgraph.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("cards", "", "directory of agent cards")

	rootCmd.AddCommand(newRunCommand(c))
	rootCmd.AddCommand(newPlanCommand(c))
	rootCmd.AddCommand(newAgentsCommand(c))
	return rootCmd
}

func (c *cli) load(cmd *cobra.Command) error {
	v, err := config.New(c.configFile)
	if err != nil {
		return err
	}
	if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag("discovery.cards_dir", cmd.Flags().Lookup("cards")); err != nil {
		return err
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.v, c.cfg = v, cfg
	return nil
}
