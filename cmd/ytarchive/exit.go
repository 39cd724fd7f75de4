package main

import (
	"errors"

	"github.com/vmunix/ytarchive/internal/archive"
	"github.com/vmunix/ytarchive/internal/config"
)

// exitCode maps a command error onto the process exit status.
func exitCode(err error) int {
	if errors.Is(err, config.ErrMissingCredentials) {
		return archive.ExitCredentials
	}
	return archive.ExitCode(err)
}
