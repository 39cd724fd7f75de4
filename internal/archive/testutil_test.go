package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmunix/ytarchive/internal/fetcher"
	"github.com/vmunix/ytarchive/internal/staging"
)

const testURL = "https://www.youtube.com/playlist?list=PLtest"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fetchFunc matches fetcher.Fetcher.FetchOne for gomock DoAndReturn.
type fetchFunc func(ctx context.Context, url string, index int, auth fetcher.Auth, outputTemplate string) error

// stageItem writes the file the fetcher would produce for an item.
func stageItem(t *testing.T, root, playlist string, index int, title string) string {
	t.Helper()
	path := filepath.Join(root, playlist, fmt.Sprintf("%03d - %s.mp4", index, title))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("\x00\x00\x00\x18ftypmp42media"), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// fetchSucceeds stages the item and reports success.
func fetchSucceeds(t *testing.T, root, playlist, title string) fetchFunc {
	return func(_ context.Context, _ string, index int, _ fetcher.Auth, _ string) error {
		stageItem(t, root, playlist, index, title)
		return nil
	}
}

func stagedFile(t *testing.T, path string) staging.File {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	idx, _ := staging.Index(filepath.Base(path))
	return staging.File{Path: path, Index: idx, Ext: filepath.Ext(path), Size: info.Size()}
}
