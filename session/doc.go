// Package session keeps the state of workflow conversations between calls:
// the task graph of a context and the results it collected so far.
//
// Store is the contract used by the orchestrator; InMemoryStore is the
// process local implementation. Other backends can be added in sub-packages
// without changing calling code.
package session
