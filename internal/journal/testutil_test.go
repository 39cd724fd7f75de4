package journal

import (
	"testing"
)

func setupTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func startTestRun(t *testing.T, j *Journal, url string) *Run {
	t.Helper()
	r := &Run{PlaylistURL: url, Bucket: "media"}
	if err := j.StartRun(r); err != nil {
		t.Fatalf("start run: %v", err)
	}
	return r
}
