// Package a2a connects the workflow engine to agents speaking the A2A
// protocol.
//
// Invoker implements core.Invoker on top of the a2a-go client: it sends one
// streaming message per call and translates the protocol events into
// core.RemoteEvent values. NewAgentExecutor goes the other way and serves an
// in-process agent through an a2a-go server.
package a2a
