package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for nodes, messages and artifacts.
func NewID() string { return uuid.NewString() }
