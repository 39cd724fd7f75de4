package staging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAcquire_Explicit(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b", "staging")

	d, err := Acquire(root)
	require.NoError(t, err)
	assert.Equal(t, root, d.Root)
	assert.False(t, d.Temporary)
	assert.DirExists(t, root)

	// Acquiring an existing directory is fine.
	again, err := Acquire(root)
	require.NoError(t, err)
	assert.Equal(t, d.Root, again.Root)
}

func TestAcquire_ExplicitFile(t *testing.T) {
	path := touch(t, t.TempDir(), "file", 1)

	_, err := Acquire(path)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestAcquire_Temporary(t *testing.T) {
	d, err := Acquire("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(d.Root) })

	assert.True(t, d.Temporary)
	assert.DirExists(t, d.Root)
	assert.Contains(t, filepath.Base(d.Root), "ytarchive-")
}

func TestRelease_Removes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "Mix/001 - Intro.mp4", 1)
	d := &Dir{Root: root}

	Release(d, false, testLogger())
	assert.NoDirExists(t, root)
}

func TestRelease_Keep(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "Mix/001 - Intro.mp4", 1)
	d := &Dir{Root: root}

	Release(d, true, testLogger())
	assert.FileExists(t, filepath.Join(root, "Mix/001 - Intro.mp4"))
}

func TestRelease_MissingIsQuiet(t *testing.T) {
	d := &Dir{Root: filepath.Join(t.TempDir(), "gone")}
	assert.NotPanics(t, func() { Release(d, false, testLogger()) })
	assert.NotPanics(t, func() { Release(nil, false, nil) })
}

func TestRemoveAll_RefusesRoot(t *testing.T) {
	err := removeAll(string(filepath.Separator))
	assert.ErrorIs(t, err, ErrUnsafeRemoval)
}

func TestRemoveAll_RefusesHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.ErrorIs(t, removeAll(home), ErrUnsafeRemoval)
}

func TestDir_Paths(t *testing.T) {
	d := &Dir{Root: "/stage"}
	assert.Equal(t, filepath.Join("/stage", JournalName), d.JournalPath())
	assert.Equal(t, filepath.Join("/stage", "My Mix"), d.PlaylistDir("My Mix"))
}

func TestFreeBytes(t *testing.T) {
	free, err := FreeBytes(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}
