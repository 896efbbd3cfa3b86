// Package core provides the foundational vocabulary shared by the workflow
// engine and its collaborators:
//
//   - Status, the closed lifecycle state set used by graphs and nodes
//   - Parts, Artifacts and Messages exchanged with remote agents
//   - RemoteEvent, the sealed set of events produced at the protocol boundary
//   - Discovery and Invoker, the two collaborator contracts the engine consumes
//   - ArtifactStore for persisting produced artifacts
//
// Implementation concerns (graph execution, transports, search backends) live
// in sibling packages so they can be swapped without touching callers.
package core
