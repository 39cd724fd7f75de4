package archive

import (
	"context"
	"log/slog"
	"sort"

	"github.com/vmunix/ytarchive/internal/fetcher"
)

// DefaultPlaylistTitle names playlists whose listing carries no title.
const DefaultPlaylistTitle = "playlist"

// Enumerator lists the entries of a remote playlist.
type Enumerator struct {
	fetcher fetcher.Fetcher
	log     *slog.Logger
}

// NewEnumerator creates an Enumerator.
func NewEnumerator(f fetcher.Fetcher, log *slog.Logger) *Enumerator {
	if log == nil {
		log = slog.Default()
	}
	return &Enumerator{fetcher: f, log: log.With("component", "enumerator")}
}

// List queries the playlist once. Failures and empty playlists come back as
// *ListingError. The returned entries are numbered 1..N in playlist order.
func (e *Enumerator) List(ctx context.Context, url string, auth fetcher.Auth) (*fetcher.Playlist, error) {
	p, err := e.fetcher.ListPlaylist(ctx, url, auth)
	if ctx.Err() != nil {
		return nil, interrupted(ctx.Err())
	}
	if err != nil {
		return nil, &ListingError{URL: url, Err: err}
	}
	if p == nil || len(p.Entries) == 0 {
		return nil, &ListingError{URL: url, Err: ErrEmptyPlaylist}
	}

	out := &fetcher.Playlist{Title: p.Title, Entries: normalizeEntries(p.Entries)}
	if out.Title == "" {
		out.Title = DefaultPlaylistTitle
	}

	e.log.Info("playlist listed", "title", out.Title, "items", len(out.Entries))
	return out, nil
}

// normalizeEntries returns the entries indexed 1..N. Reported indices are
// kept when they already form exactly that range; otherwise entries are
// numbered by position.
func normalizeEntries(in []fetcher.Entry) []fetcher.Entry {
	out := make([]fetcher.Entry, len(in))
	copy(out, in)

	if contiguous(out) {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
		return out
	}
	for i := range out {
		out[i].Index = i + 1
	}
	return out
}

func contiguous(entries []fetcher.Entry) bool {
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e.Index < 1 || e.Index > len(entries) || seen[e.Index] {
			return false
		}
		seen[e.Index] = true
	}
	return true
}
