package artifact

import "errors"

var (
	// ErrNotFound is returned when an artifact for the given context / id pair
	// does not exist in the underlying store.
	ErrNotFound = errors.New("artifact not found")
	// ErrInvalidArtifact is returned when saving a nil artifact or one
	// without an id.
	ErrInvalidArtifact = errors.New("invalid artifact")
)
