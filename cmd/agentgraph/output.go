package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/hupe1980/agentgraph/planner"
	"github.com/hupe1980/agentgraph/workflow"
)

var (
	gray   = color.New(color.FgHiBlack).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// printEvent renders one progress event.
func printEvent(w io.Writer, ev workflow.ProgressEvent) {
	switch ev.Kind {
	case workflow.EventWorking:
		fmt.Fprintf(w, "%s %s\n", gray("…"), gray(ev.Content))
	case workflow.EventNeedsInput:
		fmt.Fprintf(w, "%s %s\n", yellow("?"), bold(ev.Content))
	case workflow.EventText:
		if list, ok := planner.DecodeTaskList(ev.Data); ok {
			printPlan(w, list)
			return
		}
		fmt.Fprintf(w, "%s %s\n", green("✔"), ev.Content)
	case workflow.EventData:
		if list, ok := planner.DecodeTaskList(ev.Data); ok {
			printPlan(w, list)
			return
		}
		b, err := json.MarshalIndent(ev.Data, "  ", "  ")
		if err != nil {
			fmt.Fprintf(w, "%s %v\n", green("✔"), ev.Data)
			return
		}
		fmt.Fprintf(w, "%s %s\n", green("✔"), b)
	}
}

func printPlan(w io.Writer, list *planner.TaskList) {
	fmt.Fprintln(w, cyan(bold("Plan")))
	for i, task := range list.Descriptions() {
		fmt.Fprintf(w, "  %d. %s\n", i+1, task)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", red("✖"), err)
}
