package fetcher

import (
	"testing"

	"github.com/lrstanley/go-ytdlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlaylist(t *testing.T) {
	data := []byte(`{
		"_type": "playlist",
		"id": "PL123",
		"title": "Road Trip",
		"entries": [
			{"id": "a1", "title": "Intro", "playlist_index": 1},
			{"id": "b2", "title": "Track", "playlist_index": 2},
			null,
			{"id": "d4", "title": "No Index"}
		]
	}`)

	p, err := parsePlaylist(data)
	require.NoError(t, err)
	assert.Equal(t, "Road Trip", p.Title)
	require.Len(t, p.Entries, 4)

	assert.Equal(t, Entry{Index: 1, Title: "Intro", ID: "a1"}, p.Entries[0])
	assert.Equal(t, Entry{Index: 2, Title: "Track", ID: "b2"}, p.Entries[1])
	assert.Equal(t, Entry{Index: 3}, p.Entries[2], "null entries keep their position")
	assert.Equal(t, Entry{Index: 4, Title: "No Index", ID: "d4"}, p.Entries[3])
}

func TestParsePlaylist_SingleVideo(t *testing.T) {
	p, err := parsePlaylist([]byte(`{"_type": "video", "id": "x", "title": "Lonely"}`))
	require.NoError(t, err)
	assert.Empty(t, p.Entries)
}

func TestParsePlaylist_Garbage(t *testing.T) {
	_, err := parsePlaylist([]byte("ERROR: not json"))
	assert.ErrorIs(t, err, ErrListing)
}

func TestStderrTail(t *testing.T) {
	assert.Equal(t, "", stderrTail(nil))
	assert.Equal(t, "", stderrTail(&ytdlp.Result{}))
	assert.Equal(t, ": ERROR: Sign in to confirm",
		stderrTail(&ytdlp.Result{Stderr: "WARNING: x\nERROR: Sign in to confirm\n"}))
}

func TestNewYTDLP_Defaults(t *testing.T) {
	y := NewYTDLP(YTDLPConfig{}, nil)
	assert.Equal(t, DefaultFormat, y.cfg.Format)
	assert.Equal(t, DefaultMergeOutputFormat, y.cfg.MergeOutputFormat)
}

func TestAuth_IsZero(t *testing.T) {
	assert.True(t, Auth{}.IsZero())
	assert.False(t, Auth{Cookies: "cookies.txt"}.IsZero())
	assert.False(t, Auth{CookiesFromBrowser: "firefox"}.IsZero())
}
