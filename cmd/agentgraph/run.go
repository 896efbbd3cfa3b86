package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentgraph/core"
)

func newRunCommand(c *cli) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "run <query>",
		Short: "Plan and run a workflow for a request",
		Long: `Plan the request, run every task with the best matching agent and print the
progress. When an agent needs more input, the question is printed and, in
interactive mode, the answer is read from stdin and the workflow resumes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			contextID := core.NewID()
			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			query := strings.Join(args, " ")

			for {
				for ev, err := range a.graph.Stream(ctx, contextID, query) {
					if err != nil {
						return err
					}
					printEvent(out, ev)
				}
				sess, err := a.graph.Session(contextID)
				if err != nil {
					return err
				}
				if !sess.Paused() {
					return nil
				}
				if !interactive {
					fmt.Fprintln(out, gray("workflow paused for input"))
					return nil
				}
				fmt.Fprint(out, bold("> "))
				if !in.Scan() {
					return in.Err()
				}
				query = strings.TrimSpace(in.Text())
			}
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", true, "answer agent questions on stdin")
	return cmd
}
