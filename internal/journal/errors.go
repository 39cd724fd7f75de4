package journal

import "errors"

// Sentinel errors for the journal package.
var (
	// ErrNotFound is returned when an item or run is not in the journal.
	ErrNotFound = errors.New("not found in journal")

	// ErrInvalidTransition is returned for a status change the item
	// lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
)
