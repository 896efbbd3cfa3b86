package core

// ArtifactStore defines the interface for artifact persistence. Implementations
// should be thread-safe and scope artifacts by context identifier.
type ArtifactStore interface {
	Save(contextID string, artifact *Artifact) error
	Get(contextID, artifactID string) (*Artifact, error)
	List(contextID string) ([]string, error)
	Delete(contextID, artifactID string) error
}
