package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAgentsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Inspect the agent card corpus",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the indexed agent cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			index, err := newIndex(ctx, c.cfg.Discovery, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, card := range index.Cards() {
				fmt.Fprintf(out, "%s  %s\n", bold(card.Name), gray(card.URL))
				if card.Description != "" {
					fmt.Fprintf(out, "    %s\n", card.Description)
				}
				for _, d := range card.Descriptor().Skills {
					fmt.Fprintf(out, "    - %s\n", d)
				}
			}
			return nil
		},
	})

	var limit int
	find := &cobra.Command{
		Use:   "find <task>",
		Short: "Show the agents that best match a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			index, err := newIndex(ctx, c.cfg.Discovery, nil)
			if err != nil {
				return err
			}
			matches, err := index.Search(ctx, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintln(out, yellow("no matching agent"))
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(out, "%.3f  %s  %s\n", m.Similarity, bold(m.Card.Name), gray(m.Card.URL))
			}
			return nil
		},
	}
	find.Flags().IntVarP(&limit, "limit", "n", 3, "maximum number of matches")
	cmd.AddCommand(find)

	return cmd
}
