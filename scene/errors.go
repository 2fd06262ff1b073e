package scene

import "errors"

var (
	// ErrLevelNotFound is returned when a requested level identifier does
	// not exist in the project.
	ErrLevelNotFound = errors.New("level not found")

	// ErrResourceLoad is returned when a resource path resolves but the
	// image behind it cannot be loaded.
	ErrResourceLoad = errors.New("resource load failure")
)
