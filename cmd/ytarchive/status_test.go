package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/ytarchive/internal/events"
	"github.com/vmunix/ytarchive/internal/journal"
	"github.com/vmunix/ytarchive/internal/staging"
)

func seedJournal(t *testing.T, dir string) {
	t.Helper()
	j, err := journal.Open((&staging.Dir{Root: dir}).JournalPath())
	require.NoError(t, err)
	defer func() { _ = j.Close() }()

	run := &journal.Run{PlaylistURL: playlistURL, Bucket: "media", Prefix: "lectures"}
	require.NoError(t, j.StartRun(run))
	require.NoError(t, j.SetRunTitle(run, "Lectures"))

	done, err := j.Track(playlistURL, 1, "Intro", run.ID)
	require.NoError(t, err)
	for _, s := range []journal.Status{journal.StatusDownloading, journal.StatusDownloaded, journal.StatusUploading, journal.StatusUploaded} {
		require.NoError(t, j.Transition(done, s))
	}
	require.NoError(t, j.RecordUpload(&journal.Upload{
		PlaylistURL: playlistURL,
		Index:       1,
		LocalPath:   filepath.Join(dir, "Lectures", "001 - Intro.mp4"),
		Bucket:      "media",
		Key:         "lectures/lectures/001-intro.mp4",
		Size:        2_000_000,
		Attempts:    1,
	}))

	_, err = j.Track(playlistURL, 2, "Second", run.ID)
	require.NoError(t, err)
	require.NoError(t, j.FinishRun(run, journal.OutcomeInterrupted))

	log := events.NewEventLog(j.DB())
	_, err = log.Append(&events.FileUploaded{
		BaseEvent: events.ItemEvent(events.EventFileUploaded, 1),
		Index:     1,
		Key:       "lectures/lectures/001-intro.mp4",
		Size:      2_000_000,
		Attempts:  1,
	})
	require.NoError(t, err)
	_, err = log.Append(&events.FileUploadRetry{
		BaseEvent: events.ItemEvent(events.EventFileUploadRetry, 2),
		Index:     2,
		Key:       "lectures/lectures/002-second.mp4",
		Attempt:   1,
		Error:     "503 Slow Down",
	})
	require.NoError(t, err)
	_, err = log.Append(&events.RunAborted{
		BaseEvent: events.RunEvent(events.EventRunAborted, run.ID),
		Reason:    "interrupted",
	})
	require.NoError(t, err)
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()
	seedJournal(t, dir)

	out := captureOutput(statusCmd)
	require.NoError(t, runStatus(statusCmd, []string{dir}))

	s := out.String()
	assert.Contains(t, s, "Runs (1):")
	assert.Contains(t, s, "interrupted")
	assert.Contains(t, s, "Lectures")
	assert.Contains(t, s, "Items (2, 1 files / 2.0 MB uploaded to s3://media/lectures)")
	assert.Contains(t, s, "uploaded")
	assert.Contains(t, s, "pending")
	assert.Contains(t, s, "Retries: 0 downloads, 1 uploads")
	assert.Contains(t, s, "Recent Events (3):")
	assert.Contains(t, s, "lectures/lectures/001-intro.mp4 (2.0 MB)")
	assert.Contains(t, s, "run.aborted")
}

func TestStatus_NoJournal(t *testing.T) {
	err := runStatus(statusCmd, []string{t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no journal")
}

func TestStatus_ItemHistory(t *testing.T) {
	dir := t.TempDir()
	seedJournal(t, dir)

	require.NoError(t, statusCmd.Flags().Set("item", "2"))
	t.Cleanup(func() { _ = statusCmd.Flags().Set("item", "0") })

	out := captureOutput(statusCmd)
	require.NoError(t, runStatus(statusCmd, []string{dir}))

	s := out.String()
	assert.Contains(t, s, "Item 2 (1 events):")
	assert.Contains(t, s, "file.upload.retry")
	assert.Contains(t, s, "lectures/lectures/002-second.mp4 attempt 1: 503 Slow Down")
	assert.NotContains(t, s, "001-intro")
}
