package a2a

/*
Artifact is a named output a handler attaches to a Task.
*/
type Artifact struct {
	ArtifactID  string   `json:"artifactId"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Parts       []Part   `json:"parts"`
	Metadata    Object   `json:"metadata,omitempty"`
	Extensions  []string `json:"extensions,omitempty"`
}

func NewTextArtifact(id, name string, text string) Artifact {
	return Artifact{
		ArtifactID: id,
		Name:       name,
		Parts:      []Part{NewTextPart(text)},
	}
}

func NewFileArtifact(id, name string, file FilePart) Artifact {
	return Artifact{
		ArtifactID: id,
		Name:       name,
		Parts:      []Part{NewFilePart(file)},
	}
}
