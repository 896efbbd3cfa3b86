package core

// Artifact is the output a remote agent attaches to a task.
type Artifact struct {
	ID          string         `json:"artifactId"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// PrimaryPart returns the first part of the artifact or nil.
func (a *Artifact) PrimaryPart() Part {
	if a == nil || len(a.Parts) == 0 {
		return nil
	}
	return a.Parts[0]
}

// IsStructured reports whether the primary part carries structured data.
func (a *Artifact) IsStructured() bool {
	_, ok := a.PrimaryPart().(DataPart)
	return ok
}

// Clone returns a copy whose part slice and metadata map can diverge.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Parts = append([]Part(nil), a.Parts...)
	if a.Metadata != nil {
		cp.Metadata = make(map[string]any, len(a.Metadata))
		for k, v := range a.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
