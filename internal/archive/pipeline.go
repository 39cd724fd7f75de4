// Package archive drives a playlist through listing, per-item download and
// upload, and staging cleanup.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vmunix/ytarchive/internal/events"
	"github.com/vmunix/ytarchive/internal/fetcher"
	"github.com/vmunix/ytarchive/internal/journal"
	"github.com/vmunix/ytarchive/internal/objstore"
	"github.com/vmunix/ytarchive/internal/staging"
)

// Options configures one run. Zero values select the defaults.
type Options struct {
	PlaylistURL string
	Bucket      string
	Prefix      string

	// StagingDir is used (and created) when set; otherwise a temporary
	// directory is made.
	StagingDir string
	KeepLocal  bool

	MaxUploadRetries int
	DownloadBackoff  time.Duration
	UploadBackoff    time.Duration

	// MinFreeBytes triggers a warning before a download when the staging
	// filesystem has less space available. Zero disables the check.
	MinFreeBytes uint64

	Auth fetcher.Auth

	// Resume skips items a previous run in the same staging directory
	// already uploaded, and uploads items it downloaded but did not finish.
	Resume bool
}

// Result summarizes a finished run.
type Result struct {
	StagingDir    string
	PlaylistTitle string
	Items         int
	Skipped       int
	Uploaded      int // files
	Bytes         int64
}

// Pipeline is the orchestrator. It is the only component that removes the
// staging directory, and only after every item is uploaded.
type Pipeline struct {
	opts    Options
	fetcher fetcher.Fetcher
	store   objstore.Client
	bus     *events.Bus
	log     *slog.Logger

	state State
}

// New creates a pipeline. bus may be nil.
func New(opts Options, f fetcher.Fetcher, store objstore.Client, bus *events.Bus, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		opts:    opts,
		fetcher: f,
		store:   store,
		bus:     bus,
		log:     log.With("component", "pipeline"),
		state:   StateInit,
	}
}

// State returns the current orchestrator state.
func (p *Pipeline) State() State {
	return p.state
}

func (p *Pipeline) transition(to State) {
	if !p.state.CanTransitionTo(to) {
		// Programming error; keep going so the run outcome is still reported.
		p.log.Error("invalid state transition", "from", p.state, "to", to)
	}
	p.log.Debug("state", "from", p.state, "to", to)
	p.state = to
}

// publisher returns the bus as a Publisher, keeping a nil bus a nil
// interface.
func (p *Pipeline) publisher() Publisher {
	if p.bus == nil {
		return nil
	}
	return p.bus
}

// run holds the per-run resources.
type run struct {
	dir      *staging.Dir
	journal  *journal.Journal
	record   *journal.Run
	playlist *fetcher.Playlist
	result   *Result
}

// Run executes the pipeline. On success the staging directory has been
// released. On failure it is left in place and named in the log. A
// Pipeline runs once.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.state.IsTerminal() {
		return nil, fmt.Errorf("%w (state %s)", ErrAlreadyRun, p.state)
	}
	opts := p.opts
	pub := p.publisher()

	objstore.EnsureBucket(ctx, p.store, opts.Bucket, p.log)

	dir, err := staging.Acquire(opts.StagingDir)
	if err != nil {
		p.transition(StateAborted)
		return nil, fmt.Errorf("acquire staging dir: %w", err)
	}
	p.log.Info("staging directory ready", "staging_dir", dir.Root, "temporary", dir.Temporary)

	j, err := journal.Open(dir.JournalPath())
	if err != nil {
		p.transition(StateAborted)
		p.log.Error("run aborted; staging directory kept", "staging_dir", dir.Root, "error", err)
		return nil, err
	}

	r := &run{
		dir:     dir,
		journal: j,
		record:  &journal.Run{PlaylistURL: opts.PlaylistURL, Bucket: opts.Bucket, Prefix: opts.Prefix},
		result:  &Result{StagingDir: dir.Root},
	}
	if err := j.StartRun(r.record); err != nil {
		_ = j.Close()
		p.transition(StateAborted)
		p.log.Error("run aborted; staging directory kept", "staging_dir", dir.Root, "error", err)
		return nil, err
	}
	if p.bus != nil {
		p.bus.AttachLog(events.NewEventLog(j.DB()))
	}

	publish(ctx, pub, &events.RunStarted{
		BaseEvent:   events.RunEvent(events.EventRunStarted, r.record.ID),
		RunUUID:     r.record.UUID,
		PlaylistURL: opts.PlaylistURL,
		Bucket:      opts.Bucket,
		Prefix:      opts.Prefix,
		StagingDir:  dir.Root,
	})

	if err := p.execute(ctx, r); err != nil {
		return r.result, p.abort(ctx, r, err)
	}
	return r.result, p.cleanup(ctx, r)
}

func (p *Pipeline) execute(ctx context.Context, r *run) error {
	opts := p.opts
	pub := p.publisher()

	p.transition(StateListing)
	playlist, err := NewEnumerator(p.fetcher, p.log).List(ctx, opts.PlaylistURL, opts.Auth)
	if err != nil {
		return err
	}
	r.playlist = playlist
	r.result.PlaylistTitle = playlist.Title
	r.result.Items = len(playlist.Entries)
	if err := r.journal.SetRunTitle(r.record, playlist.Title); err != nil {
		p.log.Warn("could not record playlist title", "error", err)
	}
	publish(ctx, pub, &events.PlaylistListed{
		BaseEvent: events.RunEvent(events.EventPlaylistListed, r.record.ID),
		Title:     playlist.Title,
		Count:     len(playlist.Entries),
	})

	downloader := NewDownloader(p.fetcher, opts.DownloadBackoff, pub, p.log)
	downloader.OnAttempt = func(index, attempt int) {
		if it, err := r.journal.Get(opts.PlaylistURL, index); err == nil {
			_ = r.journal.AddAttempt(it)
		}
	}
	uploader := NewUploader(p.store, opts.Bucket, opts.Prefix, opts.MaxUploadRetries, opts.UploadBackoff, pub, p.log)

	total := len(playlist.Entries)
	for _, entry := range playlist.Entries {
		p.transition(StateDownloading)
		p.log.Info("processing item", "index", entry.Index, "total", total, "title", entry.Title)

		if err := p.processItem(ctx, r, entry, downloader, uploader); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) processItem(ctx context.Context, r *run, entry fetcher.Entry, dl *Downloader, up *Uploader) error {
	opts := p.opts
	pub := p.publisher()
	j := r.journal

	item, err := j.Track(opts.PlaylistURL, entry.Index, entry.Title, r.record.ID)
	if err != nil {
		return err
	}

	if opts.Resume && item.Status.IsDone() {
		p.log.Info("item already uploaded, skipping", "index", entry.Index)
		r.result.Skipped++
		publish(ctx, pub, &events.ItemSkipped{
			BaseEvent: events.ItemEvent(events.EventItemSkipped, entry.Index),
			Index:     entry.Index,
			Reason:    "already uploaded",
		})
		return nil
	}

	files, err := p.resumable(r, item)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		p.checkFreeSpace(ctx, r.dir.Root)
		if err := j.Transition(item, journal.StatusDownloading); err != nil {
			return err
		}
		publish(ctx, pub, &events.ItemDownloadStarted{
			BaseEvent: events.ItemEvent(events.EventItemDownloadStarted, entry.Index),
			Index:     entry.Index,
			Title:     entry.Title,
		})

		files, err = dl.Fetch(ctx, opts.PlaylistURL, entry.Index, r.dir.Root, r.dir.PlaylistDir(r.playlist.Title), opts.Auth)
		if err != nil {
			if rerr := j.Transition(item, journal.StatusPending); rerr != nil {
				p.log.Warn("could not reset item", "index", entry.Index, "error", rerr)
			}
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("item %d: %w", entry.Index, ErrNoFiles)
		}
		if err := j.Transition(item, journal.StatusDownloaded); err != nil {
			return err
		}
	}

	for _, f := range files {
		if score, ok := drifted(entry.Title, f); ok {
			p.log.Warn("staged file does not match listed title; playlist may have changed",
				"index", entry.Index,
				"title", entry.Title,
				"file", f.Name(),
				"similarity", fmt.Sprintf("%.2f", score))
		}
	}

	p.transition(StateUploading)
	if err := j.Transition(item, journal.StatusUploading); err != nil {
		return err
	}

	playlistDir := r.dir.PlaylistDir(r.playlist.Title)
	for _, f := range files {
		task := up.Task(f, playlistDir, r.dir.Root)
		attempts, err := up.Dispatch(ctx, task)
		if err != nil {
			if rerr := j.Transition(item, journal.StatusFailed); rerr != nil {
				p.log.Warn("could not mark item failed", "index", entry.Index, "error", rerr)
			}
			return err
		}

		r.result.Uploaded++
		r.result.Bytes += f.Size
		if err := j.RecordUpload(&journal.Upload{
			PlaylistURL: opts.PlaylistURL,
			Index:       entry.Index,
			LocalPath:   f.Path,
			Bucket:      opts.Bucket,
			Key:         task.Key,
			Size:        f.Size,
			Attempts:    attempts,
		}); err != nil {
			p.log.Warn("could not record upload", "key", task.Key, "error", err)
		}
	}

	if err := j.Transition(item, journal.StatusUploaded); err != nil {
		return err
	}
	publish(ctx, pub, &events.ItemCompleted{
		BaseEvent: events.ItemEvent(events.EventItemCompleted, entry.Index),
		Index:     entry.Index,
		Files:     len(files),
	})
	return nil
}

// resumable returns the staged files of an item a previous run already
// downloaded. Items that have to be fetched again are reset to pending and
// yield no files.
func (p *Pipeline) resumable(r *run, item *journal.Item) ([]staging.File, error) {
	if item.Status == journal.StatusPending {
		return nil, nil
	}

	if p.opts.Resume && item.Status.HasDownload() {
		files, err := staging.FindItem(r.dir.Root, r.dir.PlaylistDir(r.playlist.Title), item.Index)
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			p.log.Info("resuming item from staged files", "index", item.Index, "files", len(files), "status", item.Status)
			if item.Status == journal.StatusUploading {
				// Interrupted mid-upload; restart the upload step.
				if err := r.journal.Transition(item, journal.StatusFailed); err != nil {
					return nil, err
				}
			}
			return files, nil
		}
		p.log.Info("staged files gone, downloading again", "index", item.Index)
	}

	if err := r.journal.Reset(item); err != nil {
		return nil, err
	}
	return nil, nil
}

func (p *Pipeline) checkFreeSpace(ctx context.Context, root string) {
	if p.opts.MinFreeBytes == 0 {
		return
	}
	free, err := staging.FreeBytes(ctx, root)
	if err != nil {
		p.log.Debug("free space check failed", "staging_dir", root, "error", err)
		return
	}
	if free < p.opts.MinFreeBytes {
		p.log.Warn("staging filesystem is low on space",
			"staging_dir", root,
			"free", humanize.Bytes(free),
			"minimum", humanize.Bytes(p.opts.MinFreeBytes))
	}
}

func (p *Pipeline) cleanup(ctx context.Context, r *run) error {
	p.transition(StateCleanup)

	if err := r.journal.FinishRun(r.record, journal.OutcomeCompleted); err != nil {
		p.log.Warn("could not finish run record", "error", err)
	}
	publish(ctx, p.publisher(), &events.RunCompleted{
		BaseEvent: events.RunEvent(events.EventRunCompleted, r.record.ID),
		Items:     r.result.Items,
		Skipped:   r.result.Skipped,
		Uploaded:  r.result.Uploaded,
		Bytes:     r.result.Bytes,
	})
	p.closeJournal(r)

	staging.Release(r.dir, p.opts.KeepLocal, p.log)
	p.transition(StateDone)
	p.log.Info("run complete",
		"items", r.result.Items,
		"skipped", r.result.Skipped,
		"uploaded", r.result.Uploaded,
		"size", humanize.Bytes(uint64(r.result.Bytes)))
	return nil
}

func (p *Pipeline) abort(ctx context.Context, r *run, err error) error {
	outcome := journal.OutcomeFailed
	switch {
	case errors.Is(err, ErrInterrupted):
		outcome = journal.OutcomeInterrupted
		p.transition(StateAborted)
	case errors.Is(err, ErrListing):
		p.transition(StateListingFailed)
	default:
		p.transition(StateAborted)
	}

	if ferr := r.journal.FinishRun(r.record, outcome); ferr != nil {
		p.log.Warn("could not finish run record", "error", ferr)
	}
	publish(ctx, p.publisher(), &events.RunAborted{
		BaseEvent:  events.RunEvent(events.EventRunAborted, r.record.ID),
		Reason:     err.Error(),
		StagingDir: r.dir.Root,
	})
	p.closeJournal(r)

	if outcome == journal.OutcomeInterrupted {
		p.log.Warn("run interrupted; staging directory kept", "staging_dir", r.dir.Root)
	} else {
		p.log.Error("run aborted; staging directory kept", "staging_dir", r.dir.Root, "error", err)
	}
	return err
}

func (p *Pipeline) closeJournal(r *run) {
	if p.bus != nil {
		p.bus.AttachLog(nil)
	}
	if err := r.journal.Close(); err != nil {
		p.log.Warn("could not close journal", "error", err)
	}
}
