package score

import "fmt"

// SchemaError indicates that a required identifying column could not be
// resolved from the input header. Fatal: the caller should exit non-zero.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q missing from input", e.Column)
}

// ArtifactMissingError indicates that a persisted transform or model file
// is absent from the artifacts directory. Fatal: the caller should exit
// non-zero.
type ArtifactMissingError struct {
	Path string
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("required artifact missing: %s", e.Path)
}
