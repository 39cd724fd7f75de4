package runner

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/vmunix/ytarchive/internal/events"
)

// Progress renders pipeline events as one line each.
type Progress struct {
	w     io.Writer
	quiet bool
	total int
}

// NewProgress creates a reporter. Quiet reporters print only the final
// outcome of a failed run.
func NewProgress(w io.Writer, quiet bool) *Progress {
	return &Progress{w: w, quiet: quiet}
}

// Consume prints events until ch is closed.
func (p *Progress) Consume(ch <-chan events.Event) {
	for e := range ch {
		p.Handle(e)
	}
}

// Handle prints a single event.
func (p *Progress) Handle(e events.Event) {
	if line := p.format(e); line != "" {
		_, _ = fmt.Fprintln(p.w, line)
	}
}

func (p *Progress) format(e events.Event) string {
	if ev, ok := e.(*events.PlaylistListed); ok {
		p.total = ev.Count
	}
	if p.quiet {
		if ev, ok := e.(*events.RunAborted); ok {
			return fmt.Sprintf("aborted: %s (staging kept at %s)", ev.Reason, ev.StagingDir)
		}
		return ""
	}

	switch ev := e.(type) {
	case *events.RunStarted:
		return fmt.Sprintf("staging in %s", ev.StagingDir)
	case *events.PlaylistListed:
		return fmt.Sprintf("playlist %q: %d items", ev.Title, ev.Count)
	case *events.ItemDownloadStarted:
		return fmt.Sprintf("%s downloading %s", p.pos(ev.Index), ev.Title)
	case *events.ItemDownloadRetry:
		return fmt.Sprintf("%s attempt %d failed, retrying: %s", p.pos(ev.Index), ev.Attempt, ev.Error)
	case *events.ItemDownloaded:
		return fmt.Sprintf("%s downloaded %d %s (%s)", p.pos(ev.Index), len(ev.Files), plural(len(ev.Files), "file"), humanize.Bytes(uint64(ev.Bytes)))
	case *events.ItemSkipped:
		return fmt.Sprintf("%s skipped: %s", p.pos(ev.Index), ev.Reason)
	case *events.FileUploadRetry:
		return fmt.Sprintf("%s upload of %s failed (attempt %d): %s", p.pos(ev.Index), ev.Key, ev.Attempt, ev.Error)
	case *events.FileUploaded:
		return fmt.Sprintf("%s uploaded %s (%s)", p.pos(ev.Index), ev.Key, humanize.Bytes(uint64(ev.Size)))
	case *events.RunCompleted:
		return fmt.Sprintf("done: %d items, %d %s uploaded (%s), %d skipped",
			ev.Items, ev.Uploaded, plural(ev.Uploaded, "file"), humanize.Bytes(uint64(ev.Bytes)), ev.Skipped)
	case *events.RunAborted:
		return fmt.Sprintf("aborted: %s (staging kept at %s)", ev.Reason, ev.StagingDir)
	}
	return ""
}

func (p *Progress) pos(index int) string {
	if p.total > 0 {
		return fmt.Sprintf("[%d/%d]", index, p.total)
	}
	return fmt.Sprintf("[%d]", index)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
