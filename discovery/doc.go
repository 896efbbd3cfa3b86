// Package discovery resolves task descriptions to agents.
//
// Index embeds a corpus of agent cards into a chromem-go collection and
// resolves a task to the card with the highest cosine similarity. Registry is
// a static keyword matcher for small deployments and tests. Cached puts an
// LRU cache in front of any core.Discovery.
package discovery
