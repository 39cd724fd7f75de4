package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/ytarchive/internal/fetcher"
	"github.com/vmunix/ytarchive/internal/fetcher/mocks"
	"go.uber.org/mock/gomock"
)

func TestEnumerator_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	auth := fetcher.Auth{CookiesFromBrowser: "brave:Default"}

	f.EXPECT().ListPlaylist(gomock.Any(), testURL, auth).Return(&fetcher.Playlist{
		Title:   "Mix",
		Entries: []fetcher.Entry{{Index: 1, Title: "Intro"}, {Index: 2, Title: "Track"}},
	}, nil)

	p, err := NewEnumerator(f, testLogger()).List(context.Background(), testURL, auth)
	require.NoError(t, err)
	assert.Equal(t, "Mix", p.Title)
	require.Len(t, p.Entries, 2)
	assert.Equal(t, "Intro", p.Entries[0].Title)
}

func TestEnumerator_List_DefaultTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().ListPlaylist(gomock.Any(), testURL, gomock.Any()).
		Return(&fetcher.Playlist{Entries: []fetcher.Entry{{Index: 1}}}, nil)

	p, err := NewEnumerator(f, testLogger()).List(context.Background(), testURL, fetcher.Auth{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPlaylistTitle, p.Title)
}

func TestEnumerator_List_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	cause := errors.New("HTTP Error 404")
	f.EXPECT().ListPlaylist(gomock.Any(), testURL, gomock.Any()).Return(nil, cause)

	_, err := NewEnumerator(f, testLogger()).List(context.Background(), testURL, fetcher.Auth{})

	var le *ListingError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, ErrListing)
	assert.ErrorIs(t, err, cause)
}

func TestEnumerator_List_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().ListPlaylist(gomock.Any(), testURL, gomock.Any()).Return(&fetcher.Playlist{Title: "Empty"}, nil)

	_, err := NewEnumerator(f, testLogger()).List(context.Background(), testURL, fetcher.Auth{})
	assert.ErrorIs(t, err, ErrListing)
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
}

func TestEnumerator_List_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	f.EXPECT().ListPlaylist(gomock.Any(), testURL, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ fetcher.Auth) (*fetcher.Playlist, error) {
			cancel()
			return nil, ctx.Err()
		})

	_, err := NewEnumerator(f, testLogger()).List(ctx, testURL, fetcher.Auth{})
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, ExitInterrupted, ExitCode(err))
}

func TestNormalizeEntries(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"already contiguous", []int{1, 2, 3}, []int{1, 2, 3}},
		{"contiguous out of order", []int{2, 1, 3}, []int{1, 2, 3}},
		{"gap renumbered", []int{1, 3, 4}, []int{1, 2, 3}},
		{"duplicates renumbered", []int{1, 1, 2}, []int{1, 2, 3}},
		{"missing indices", []int{0, 0}, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]fetcher.Entry, len(tt.in))
			for i, idx := range tt.in {
				in[i] = fetcher.Entry{Index: idx}
			}

			out := normalizeEntries(in)
			got := make([]int, len(out))
			for i, e := range out {
				got[i] = e.Index
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEntries_KeepsTitlesWithIndex(t *testing.T) {
	out := normalizeEntries([]fetcher.Entry{{Index: 2, Title: "B"}, {Index: 1, Title: "A"}})

	assert.Equal(t, fetcher.Entry{Index: 1, Title: "A"}, out[0])
	assert.Equal(t, fetcher.Entry{Index: 2, Title: "B"}, out[1])
}
