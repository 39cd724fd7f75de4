// Package staging owns the local scratch directory that downloads land in
// before they are uploaded.
package staging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// JournalName is the file name of the run journal kept inside the staging root.
const JournalName = ".ytarchive.db"

// Dir is a staging directory acquired for one pipeline run.
type Dir struct {
	Root string
	// Temporary is true when the directory was created by Acquire rather
	// than supplied by the caller.
	Temporary bool
}

// JournalPath returns the location of the run journal for this directory.
func (d *Dir) JournalPath() string {
	return filepath.Join(d.Root, JournalName)
}

// PlaylistDir returns the per-playlist subfolder the fetcher writes into.
func (d *Dir) PlaylistDir(title string) string {
	return filepath.Join(d.Root, title)
}

// Acquire returns the staging directory for a run. An explicit path is
// created with its parents when absent; otherwise a fresh temporary
// directory is made.
func Acquire(explicit string) (*Dir, error) {
	if explicit == "" {
		root, err := os.MkdirTemp("", "ytarchive-")
		if err != nil {
			return nil, fmt.Errorf("create temp staging dir: %w", err)
		}
		return &Dir{Root: root, Temporary: true}, nil
	}

	abs, err := filepath.Abs(explicit)
	if err != nil {
		return nil, fmt.Errorf("resolve staging dir: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, abs)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Dir{Root: abs}, nil
}

// Release removes the staging directory unless keep is set. Failures are
// logged and swallowed: by the time Release runs the outcome of the run is
// already decided.
func Release(d *Dir, keep bool, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	if d == nil {
		return
	}
	if keep {
		log.Info("keeping staging directory", "staging_dir", d.Root)
		return
	}

	if err := removeAll(d.Root); err != nil {
		log.Warn("could not remove staging directory", "staging_dir", d.Root, "error", err)
		return
	}
	log.Info("removed staging directory", "staging_dir", d.Root)
}

func removeAll(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	clean := filepath.Clean(abs)

	if clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return fmt.Errorf("%w: %s", ErrUnsafeRemoval, clean)
	}
	if home, err := os.UserHomeDir(); err == nil && filepath.Clean(home) == clean {
		return fmt.Errorf("%w: %s", ErrUnsafeRemoval, clean)
	}

	if _, err := os.Stat(clean); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(clean)
}
