package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/planner"
)

func newPlanCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <query>",
		Short: "Show the task list the planner produces for a request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			reply, err := a.planner.Plan(ctx, core.NewID(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case reply.Status == planner.StatusCompleted && len(reply.Content.Descriptions()) > 0:
				printPlan(out, reply.Content)
			case reply.Question != "":
				fmt.Fprintf(out, "%s %s\n", yellow("?"), bold(reply.Question))
			default:
				fmt.Fprintln(out, yellow(planner.UnavailableText))
			}
			return nil
		},
	}
}
