package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig pins the config file location, skipping the search.
const EnvConfig = "YTARCHIVE_CONFIG"

const fileName = "ytarchive.toml"

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("no ytarchive config file")

// DefaultPath is where `config init` writes without an explicit path:
// ytarchive/ytarchive.toml under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./" + fileName
	}
	return filepath.Join(dir, "ytarchive", fileName)
}

// SearchPaths lists the locations Discover tries, in order: the working
// directory, the user config directory and /etc/ytarchive.
func SearchPaths() []string {
	return []string{
		"./" + fileName,
		DefaultPath(),
		filepath.Join("/etc/ytarchive", fileName),
	}
}

// Discover returns the config file to load. EnvConfig wins and must name an
// existing file; otherwise the first regular file among SearchPaths is used.
func Discover() (string, error) {
	if pinned := os.Getenv(EnvConfig); pinned != "" {
		if _, err := os.Stat(pinned); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, pinned, err)
		}
		return pinned, nil
	}

	candidates := SearchPaths()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (looked in %s)", ErrNotFound, strings.Join(candidates, ", "))
}
