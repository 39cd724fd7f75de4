// Package fetcher describes the external media fetcher the archive pipeline
// drives, and provides a yt-dlp backed implementation.
package fetcher

//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks

import (
	"context"
	"errors"
)

var (
	// ErrListing is returned when the playlist metadata could not be obtained.
	ErrListing = errors.New("list playlist")

	// ErrFetch is returned when a single item fetch exits unsuccessfully.
	ErrFetch = errors.New("fetch playlist item")
)

// Auth is an opaque credential bundle handed to the fetcher unmodified.
type Auth struct {
	Cookies            string // path to a Netscape cookie file
	CookiesFromBrowser string // e.g. "brave:Default"
}

// IsZero reports whether no credentials were supplied.
func (a Auth) IsZero() bool {
	return a.Cookies == "" && a.CookiesFromBrowser == ""
}

// Entry is one item of a remote playlist.
type Entry struct {
	Index int    // 1-based playlist position
	Title string
	ID    string // remote id when the listing provides one
}

// Playlist is the metadata of a remote playlist.
type Playlist struct {
	Title   string
	Entries []Entry
}

// Fetcher is the external media fetcher.
type Fetcher interface {
	// ListPlaylist dumps the playlist metadata without downloading media.
	ListPlaylist(ctx context.Context, url string, auth Auth) (*Playlist, error)
	// FetchOne downloads exactly one playlist item using outputTemplate.
	// A nil error means the fetcher exited successfully.
	FetchOne(ctx context.Context, url string, index int, auth Auth, outputTemplate string) error
}
