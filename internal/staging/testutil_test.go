package staging

import (
	"os"
	"path/filepath"
	"testing"
)

// touch creates a file (and its parent directories) under root.
func touch(t *testing.T, root, rel string, size int) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}
