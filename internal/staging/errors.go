package staging

import "errors"

var (
	// ErrUnsafeRemoval is returned when Release is asked to delete a path
	// that must never be removed recursively.
	ErrUnsafeRemoval = errors.New("refusing to remove unsafe staging path")

	// ErrNotDirectory indicates an explicit staging path exists but is a file.
	ErrNotDirectory = errors.New("staging path is not a directory")
)
