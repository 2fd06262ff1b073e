package ldtk

import "errors"

var (
	// ErrInvalidFormat is returned when a document fails to decode against
	// the project schema.
	ErrInvalidFormat = errors.New("invalid project format")

	// ErrExternalLevelNotFound is returned when a project declares external
	// per-level files and one of them is missing.
	ErrExternalLevelNotFound = errors.New("external level file not found")

	// ErrMissingDefinition is returned when an instance references a uid or
	// identifier that is not present in the definitions catalog.
	ErrMissingDefinition = errors.New("missing definition")
)
