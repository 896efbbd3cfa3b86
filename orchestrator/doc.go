// Package orchestrator drives multi-turn workflows on top of the workflow
// package. A new conversation starts with a planner node; the task list the
// planner returns is expanded into a chain of nodes and executed. When a
// node asks for input the graph pauses and the next message of the same
// context resumes it.
package orchestrator
