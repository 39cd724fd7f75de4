package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vmunix/ytarchive/internal/events"
	"github.com/vmunix/ytarchive/internal/journal"
	"github.com/vmunix/ytarchive/internal/staging"
)

var statusCmd = &cobra.Command{
	Use:   "status <staging-dir>",
	Short: "Show the journal of a staging directory",
	Long:  "Prints the runs, items and recent events recorded in a kept staging directory.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	statusCmd.Flags().Int("item", 0, "Show the full event history of one playlist index")
}

func runStatus(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	item, _ := cmd.Flags().GetInt("item")

	dir := &staging.Dir{Root: args[0]}
	if _, err := os.Stat(dir.JournalPath()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no journal in %s", args[0])
		}
		return err
	}

	j, err := journal.Open(dir.JournalPath())
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	if item > 0 {
		return printItemHistory(cmd.OutOrStdout(), j, item)
	}
	return printStatus(cmd.OutOrStdout(), j, limit)
}

func printItemHistory(w io.Writer, j *journal.Journal, index int) error {
	history, err := events.NewEventLog(j.DB()).ForEntity(events.EntityItem, int64(index))
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintf(w, "No events for item %d\n", index)
		return nil
	}

	registry := events.DefaultRegistry()
	fmt.Fprintf(w, "Item %d (%d events):\n\n", index, len(history))
	for _, raw := range history {
		fmt.Fprintf(w, "  %s  %-24s %s\n", raw.OccurredAt.Format("2006-01-02 15:04:05"), raw.EventType, detail(registry, raw))
	}
	return nil
}

func detail(registry *events.Registry, raw events.RawEvent) string {
	e, err := registry.Unmarshal(raw)
	if err != nil {
		return ""
	}
	return describeEvent(e)
}

func printStatus(w io.Writer, j *journal.Journal, limit int) error {
	runs, err := j.Runs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs")
		return nil
	}

	fmt.Fprintf(w, "Runs (%d):\n\n", len(runs))
	fmt.Fprintf(w, "  %-4s %-12s %-12s %s\n", "ID", "STARTED", "OUTCOME", "PLAYLIST")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60))
	for _, r := range runs {
		title := r.PlaylistTitle
		if title == "" {
			title = r.PlaylistURL
		}
		fmt.Fprintf(w, "  %-4d %-12s %-12s %s\n", r.ID, humanize.Time(r.StartedAt), r.Outcome, title)
	}

	// Runs are newest first; the latest run decides which playlist is shown.
	latest := runs[0]
	items, err := j.Items(latest.PlaylistURL)
	if err != nil {
		return err
	}
	uploads, err := j.Uploads(latest.PlaylistURL)
	if err != nil {
		return err
	}

	var uploaded int64
	for _, u := range uploads {
		uploaded += u.Size
	}

	fmt.Fprintf(w, "\nItems (%d, %d files / %s uploaded to s3://%s/%s):\n\n",
		len(items), len(uploads), humanize.Bytes(uint64(uploaded)), latest.Bucket, latest.Prefix)
	fmt.Fprintf(w, "  %-5s %-12s %-8s %s\n", "INDEX", "STATUS", "TRIES", "TITLE")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60))
	for _, it := range items {
		fmt.Fprintf(w, "  %-5d %-12s %-8d %s\n", it.Index, it.Status, it.Attempts, it.Title)
	}

	log := events.NewEventLog(j.DB())
	downloadRetries, err := log.OfType(events.EventItemDownloadRetry)
	if err != nil {
		return err
	}
	uploadRetries, err := log.OfType(events.EventFileUploadRetry)
	if err != nil {
		return err
	}
	if len(downloadRetries)+len(uploadRetries) > 0 {
		fmt.Fprintf(w, "\nRetries: %d downloads, %d uploads\n", len(downloadRetries), len(uploadRetries))
	}

	recent, err := log.Recent(limit)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		return nil
	}

	registry := events.DefaultRegistry()
	fmt.Fprintf(w, "\nRecent Events (%d):\n\n", len(recent))
	fmt.Fprintf(w, "  %-14s %-24s %-10s %s\n", "TIME", "TYPE", "ENTITY", "DETAIL")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 70))
	for _, raw := range recent {
		entity := fmt.Sprintf("%s/%d", raw.EntityType, raw.EntityID)
		fmt.Fprintf(w, "  %-14s %-24s %-10s %s\n", humanize.Time(raw.OccurredAt), raw.EventType, entity, detail(registry, raw))
	}
	return nil
}

func describeEvent(e events.Event) string {
	switch e := e.(type) {
	case *events.PlaylistListed:
		return fmt.Sprintf("%s (%d items)", e.Title, e.Count)
	case *events.ItemDownloadStarted:
		return e.Title
	case *events.ItemDownloadRetry:
		return fmt.Sprintf("attempt %d: %s", e.Attempt, e.Error)
	case *events.ItemDownloaded:
		return fmt.Sprintf("%d files, %s", len(e.Files), humanize.Bytes(uint64(e.Bytes)))
	case *events.ItemSkipped:
		return e.Reason
	case *events.FileUploadRetry:
		return fmt.Sprintf("%s attempt %d: %s", e.Key, e.Attempt, e.Error)
	case *events.FileUploaded:
		return fmt.Sprintf("%s (%s)", e.Key, humanize.Bytes(uint64(e.Size)))
	case *events.RunCompleted:
		return fmt.Sprintf("%d items, %d files", e.Items, e.Uploaded)
	case *events.RunAborted:
		return e.Reason
	}
	return ""
}
