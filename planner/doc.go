// Package planner provides the in-process planner agent. It asks a language
// model to break a request down into an ordered task list, or to ask the
// user one clarifying question, and reports the outcome as remote events so
// the planner can serve a workflow node like any other agent.
package planner
