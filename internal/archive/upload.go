package archive

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/vmunix/ytarchive/internal/events"
	"github.com/vmunix/ytarchive/internal/objstore"
	"github.com/vmunix/ytarchive/internal/sanitize"
	"github.com/vmunix/ytarchive/internal/staging"
)

// DefaultMaxUploadRetries is the default upload attempt ceiling per file.
const DefaultMaxUploadRetries = 3

// UploadTask is one staged file paired with its destination key.
type UploadTask struct {
	File staging.File
	Key  string
}

// Uploader puts staged files into a bucket with a bounded number of
// attempts.
type Uploader struct {
	store      objstore.Client
	bucket     string
	prefix     string
	maxRetries int
	backoff    time.Duration
	events     Publisher
	log        *slog.Logger
}

// NewUploader creates an Uploader. maxRetries below 1 selects
// DefaultMaxUploadRetries and a non-positive backoff selects DefaultBackoff.
func NewUploader(store objstore.Client, bucket, prefix string, maxRetries int, backoff time.Duration, pub Publisher, log *slog.Logger) *Uploader {
	if log == nil {
		log = slog.Default()
	}
	if maxRetries < 1 {
		maxRetries = DefaultMaxUploadRetries
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Uploader{
		store:      store,
		bucket:     bucket,
		prefix:     strings.Trim(prefix, "/"),
		maxRetries: maxRetries,
		backoff:    backoff,
		events:     pub,
		log:        log.With("component", "uploader"),
	}
}

// Key returns the object key for a staged file: the sanitized path relative
// to playlistDir when the file is inside it, else relative to root, with
// prefix in front.
func Key(prefix string, f staging.File, playlistDir, root string) string {
	rel, ok := relativeTo(playlistDir, f.Path)
	if !ok {
		rel, ok = relativeTo(root, f.Path)
	}
	if !ok {
		rel = filepath.Base(f.Path)
	}
	return objstore.Join(strings.Trim(prefix, "/"), sanitize.Path(filepath.ToSlash(rel)))
}

func relativeTo(base, path string) (string, bool) {
	if base == "" {
		return "", false
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// Task builds the upload task for a staged file.
func (u *Uploader) Task(f staging.File, playlistDir, root string) UploadTask {
	return UploadTask{File: f, Key: Key(u.prefix, f, playlistDir, root)}
}

// Upload makes a single attempt to store a file under bucket/key. A nil
// error means the object was written.
func (u *Uploader) Upload(ctx context.Context, bucket, key string, f staging.File) error {
	var contentType string
	if mt, err := mimetype.DetectFile(f.Path); err == nil {
		contentType = mt.String()
	}

	u.log.Info("uploading",
		"file", f.Name(),
		"bucket", bucket,
		"key", key,
		"size", humanize.Bytes(uint64(f.Size)),
		"content_type", contentType)
	return u.store.Put(ctx, bucket, key, f.Path, contentType)
}

// Dispatch uploads one task, making up to the configured number of attempts in total
// with a fixed backoff between them. It returns the number of attempts
// made. Exhaustion yields *UploadError; cancellation yields an error
// matching ErrInterrupted.
func (u *Uploader) Dispatch(ctx context.Context, t UploadTask) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= u.maxRetries; attempt++ {
		err := u.Upload(ctx, u.bucket, t.Key, t.File)
		if err == nil {
			u.uploaded(ctx, t, attempt)
			return attempt, nil
		}
		if ctx.Err() != nil {
			return attempt, interrupted(ctx.Err())
		}

		lastErr = err
		u.log.Warn("upload attempt failed",
			"index", t.File.Index,
			"file", t.File.Name(),
			"key", t.Key,
			"attempt", attempt,
			"max_attempts", u.maxRetries,
			"error", err)
		publish(ctx, u.events, &events.FileUploadRetry{
			BaseEvent: events.ItemEvent(events.EventFileUploadRetry, t.File.Index),
			Index:     t.File.Index,
			Key:       t.Key,
			Attempt:   attempt,
			Error:     err.Error(),
		})

		if attempt < u.maxRetries {
			if err := sleep(ctx, u.backoff); err != nil {
				return attempt, err
			}
		}
	}

	return u.maxRetries, &UploadError{
		Path:     t.File.Path,
		Key:      t.Key,
		Attempts: u.maxRetries,
		Err:      lastErr,
	}
}

func (u *Uploader) uploaded(ctx context.Context, t UploadTask, attempts int) {
	u.log.Info("uploaded",
		"file", t.File.Name(),
		"key", t.Key,
		"size", humanize.Bytes(uint64(t.File.Size)),
		"attempts", attempts)
	publish(ctx, u.events, &events.FileUploaded{
		BaseEvent: events.ItemEvent(events.EventFileUploaded, t.File.Index),
		Index:     t.File.Index,
		Path:      t.File.Path,
		Key:       t.Key,
		Size:      t.File.Size,
		Attempts:  attempts,
	})
}
