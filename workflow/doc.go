// Package workflow executes directed graphs of dependent tasks where each
// task is delegated to an agent resolved at run time.
//
// A Graph owns Nodes and the dependency edges between them. Graph.Run
// executes the applicable sub-graph in topological order and yields the
// ProgressEvents of every node as a single lazy sequence. When a node reports
// that its agent needs more input the graph pauses: the current node's stream
// is drained, no further nodes start, and PausedNodeID records where to resume.
// A later Run starting at that node re-runs only it and its descendants.
//
// Nodes within a run execute strictly one after another. Breaking out of the
// sequence returned by Run releases the open agent stream of the current node.
package workflow
