package archive

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for the archive package.
var (
	// ErrListing is returned when the playlist could not be enumerated.
	ErrListing = errors.New("playlist listing failed")

	// ErrEmptyPlaylist is returned when the listing has no entries.
	ErrEmptyPlaylist = errors.New("playlist has no entries")

	// ErrNoFiles is returned when a finished item has no staged files.
	ErrNoFiles = errors.New("no files produced for item")

	// ErrUploadExhausted is returned when every upload attempt for a file failed.
	ErrUploadExhausted = errors.New("upload retries exhausted")

	// ErrAlreadyRun is returned when Run is called on a finished pipeline.
	ErrAlreadyRun = errors.New("pipeline already ran")

	// ErrInterrupted is returned when the run was cancelled by the caller.
	ErrInterrupted = errors.New("interrupted")
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitCredentials = 2
	ExitInterrupted = 130
)

// ListingError wraps a failed or empty playlist enumeration.
type ListingError struct {
	URL string
	Err error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("list %s: %v", e.URL, e.Err)
}

func (e *ListingError) Unwrap() []error {
	return []error{ErrListing, e.Err}
}

// UploadError reports a file that could not be uploaded within the retry
// ceiling.
type UploadError struct {
	Path     string
	Key      string
	Attempts int
	Err      error // last store error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s to %s: %d attempts failed: %v", e.Path, e.Key, e.Attempts, e.Err)
}

func (e *UploadError) Unwrap() []error {
	return []error{ErrUploadExhausted, e.Err}
}

// interrupted marks a cancellation so callers can match both ErrInterrupted
// and the context error.
func interrupted(err error) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, err)
}

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInterrupted), errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}
