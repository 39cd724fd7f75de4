package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// Defaults mirror the format selection the archive has always used: prefer
// an mp4 video stream with m4a audio, merged into an mp4 container.
const (
	DefaultFormat            = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best"
	DefaultMergeOutputFormat = "mp4"
)

// YTDLPConfig configures the yt-dlp fetcher.
type YTDLPConfig struct {
	Executable        string // empty resolves yt-dlp from PATH
	Format            string
	MergeOutputFormat string
	Quiet             bool
}

// YTDLP drives the yt-dlp command line through go-ytdlp.
type YTDLP struct {
	cfg YTDLPConfig
	log *slog.Logger
}

// NewYTDLP creates a yt-dlp backed fetcher.
func NewYTDLP(cfg YTDLPConfig, log *slog.Logger) *YTDLP {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.MergeOutputFormat == "" {
		cfg.MergeOutputFormat = DefaultMergeOutputFormat
	}
	return &YTDLP{cfg: cfg, log: log}
}

// Install makes sure a yt-dlp binary is available, downloading one into
// the go-ytdlp cache when it is not.
func Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	return nil
}

func (y *YTDLP) command(auth Auth) *ytdlp.Command {
	cmd := ytdlp.New().YesPlaylist()
	if y.cfg.Executable != "" {
		cmd.SetExecutable(y.cfg.Executable)
	}
	if auth.Cookies != "" {
		cmd.Cookies(auth.Cookies)
	}
	if auth.CookiesFromBrowser != "" {
		cmd.CookiesFromBrowser(auth.CookiesFromBrowser)
	}
	if y.cfg.Quiet {
		cmd.NoWarnings()
	}
	return cmd
}

// ListPlaylist implements Fetcher.
func (y *YTDLP) ListPlaylist(ctx context.Context, url string, auth Auth) (*Playlist, error) {
	y.log.Info("listing playlist entries", "url", url, "cookies", !auth.IsZero())

	res, err := y.command(auth).DumpSingleJSON().Run(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v%s", ErrListing, err, stderrTail(res))
	}

	return parsePlaylist([]byte(res.Stdout))
}

// parsePlaylist builds a Playlist from yt-dlp's --dump-single-json output.
func parsePlaylist(data []byte) (*Playlist, error) {
	raw := json.RawMessage(data)
	info, err := ytdlp.ParseExtractedInfo(&raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse yt-dlp output: %v", ErrListing, err)
	}

	p := &Playlist{Entries: make([]Entry, 0, len(info.Entries))}
	if info.Title != nil {
		p.Title = *info.Title
	}
	for i, e := range info.Entries {
		entry := Entry{Index: i + 1}
		// Unavailable videos are dumped as null but still occupy their
		// playlist position.
		if e != nil {
			entry.ID = e.ID
			if e.Title != nil {
				entry.Title = *e.Title
			}
			if e.PlaylistIndex != nil && *e.PlaylistIndex > 0 {
				entry.Index = *e.PlaylistIndex
			}
		}
		p.Entries = append(p.Entries, entry)
	}
	return p, nil
}

// FetchOne implements Fetcher.
func (y *YTDLP) FetchOne(ctx context.Context, url string, index int, auth Auth, outputTemplate string) error {
	cmd := y.command(auth).
		NoPart().
		MergeOutputFormat(y.cfg.MergeOutputFormat).
		Format(y.cfg.Format).
		Output(outputTemplate).
		PlaylistItems(strconv.Itoa(index))

	y.log.Debug("running yt-dlp", "index", index, "template", outputTemplate)

	res, err := cmd.Run(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w %d: %v%s", ErrFetch, index, err, stderrTail(res))
	}
	if res != nil && res.ExitCode != 0 {
		return fmt.Errorf("%w %d: exit code %d%s", ErrFetch, index, res.ExitCode, stderrTail(res))
	}
	return nil
}

// stderrTail returns the last stderr line of a yt-dlp run, formatted for
// appending to an error message.
func stderrTail(res *ytdlp.Result) string {
	if res == nil {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(res.Stderr), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return ""
	}
	return ": " + last
}
