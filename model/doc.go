// Package model defines the provider agnostic abstraction used by the planner
// and the orchestrator summarizer to talk to language models.
//
// Core goals:
//   - Unify streaming and non-streaming generation behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement the Model interface in sub-packages
// so higher layers stay decoupled from vendor SDKs.
package model
