package archive

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vmunix/ytarchive/internal/events"
	"github.com/vmunix/ytarchive/internal/fetcher"
	"github.com/vmunix/ytarchive/internal/staging"
)

// DefaultBackoff is the pause between consecutive retry attempts.
const DefaultBackoff = 2 * time.Second

// errNothingStaged describes an attempt that exited cleanly but left no
// finished media file behind.
var errNothingStaged = errors.New("no finished media file staged")

// OutputTemplate is the fetcher naming template for a staging root. Every
// item lands in a per-playlist folder with its zero-padded index in front.
func OutputTemplate(root string) string {
	return filepath.Join(root, "%(playlist_title)s", "%(playlist_index)03d - %(title)s.%(ext)s")
}

// Downloader fetches single playlist items, retrying until they succeed or
// the context is cancelled.
type Downloader struct {
	fetcher fetcher.Fetcher
	backoff time.Duration
	events  Publisher
	log     *slog.Logger

	// OnAttempt, when set, is called before every fetch attempt.
	OnAttempt func(index, attempt int)
}

// NewDownloader creates a Downloader. A non-positive backoff selects
// DefaultBackoff.
func NewDownloader(f fetcher.Fetcher, backoff time.Duration, pub Publisher, log *slog.Logger) *Downloader {
	if log == nil {
		log = slog.Default()
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Downloader{
		fetcher: f,
		backoff: backoff,
		events:  pub,
		log:     log.With("component", "downloader"),
	}
}

// Fetch downloads item index of the playlist at url into root and returns
// its staged files, sorted by path. An attempt succeeds when the fetcher
// exits cleanly and at least one finished file with the item's prefix is
// found, inside playlistDir when that folder exists. There is no attempt limit; only cancellation ends the loop early.
func (d *Downloader) Fetch(ctx context.Context, url string, index int, root, playlistDir string, auth fetcher.Auth) ([]staging.File, error) {
	template := OutputTemplate(root)

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return nil, interrupted(ctx.Err())
		}
		if d.OnAttempt != nil {
			d.OnAttempt(index, attempt)
		}

		d.log.Info("downloading item", "index", index, "attempt", attempt)
		fetchErr := d.fetcher.FetchOne(ctx, url, index, auth, template)
		if ctx.Err() != nil {
			return nil, interrupted(ctx.Err())
		}

		files, scanErr := staging.FindItem(root, playlistDir, index)
		if fetchErr == nil && scanErr == nil && len(files) > 0 {
			d.downloaded(ctx, index, attempt, files)
			return files, nil
		}

		cause := fetchErr
		switch {
		case cause == nil && scanErr != nil:
			cause = scanErr
		case cause == nil:
			cause = errNothingStaged
		}
		d.log.Warn("download attempt failed, retrying",
			"index", index,
			"attempt", attempt,
			"matches", len(files),
			"backoff", d.backoff,
			"error", cause)
		publish(ctx, d.events, &events.ItemDownloadRetry{
			BaseEvent: events.ItemEvent(events.EventItemDownloadRetry, index),
			Index:     index,
			Attempt:   attempt,
			Matches:   len(files),
			Error:     cause.Error(),
		})

		if err := sleep(ctx, d.backoff); err != nil {
			return nil, err
		}
	}
}

func (d *Downloader) downloaded(ctx context.Context, index, attempts int, files []staging.File) {
	var total int64
	names := make([]string, 0, len(files))
	for _, f := range files {
		total += f.Size
		names = append(names, f.Name())
	}

	d.log.Info("item downloaded",
		"index", index,
		"files", len(files),
		"size", humanize.Bytes(uint64(total)),
		"attempts", attempts)
	publish(ctx, d.events, &events.ItemDownloaded{
		BaseEvent: events.ItemEvent(events.EventItemDownloaded, index),
		Index:     index,
		Files:     names,
		Bytes:     total,
		Attempts:  attempts,
	})
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return interrupted(ctx.Err())
	case <-t.C:
		return nil
	}
}
