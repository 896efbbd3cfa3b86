// Package artifact contains concrete implementations of core.ArtifactStore.
//
// The interface lives in the core package so the orchestrator can depend on
// the contract only. Implementations keep artifacts scoped by the context id
// of the workflow that produced them.
package artifact
