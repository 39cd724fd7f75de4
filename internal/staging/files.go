package staging

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// File is a fully written media file in the staging tree.
type File struct {
	Path  string
	Index int    // owning playlist item, 0 if the name has no index prefix
	Ext   string // lowercase, with leading dot
	Size  int64
}

// Name returns the base name of the file.
func (f File) Name() string {
	return filepath.Base(f.Path)
}

// mediaExts are the final containers the fetcher is asked to produce.
var mediaExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
}

// partialSuffixes mark files the fetcher is still writing.
var partialSuffixes = []string{".part", ".ytdl", ".tmp", ".temp"}

// sidecarSuffixes are metadata and artwork written next to the media.
var sidecarSuffixes = []string{
	".info.json", ".json", ".jpg", ".jpeg", ".png", ".webp",
	".vtt", ".srt", ".description",
}

// IsMediaFile reports whether name is a finished media container.
func IsMediaFile(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	if lower == JournalName || strings.HasPrefix(lower, JournalName) {
		return false
	}
	for _, s := range partialSuffixes {
		if strings.HasSuffix(lower, s) {
			return false
		}
	}
	for _, s := range sidecarSuffixes {
		if strings.HasSuffix(lower, s) {
			return false
		}
	}
	return mediaExts[filepath.Ext(lower)]
}

// Prefix returns the zero-padded "NNN - " file name prefix of a playlist item.
func Prefix(index int) string {
	return fmt.Sprintf("%03d - ", index)
}

// Index parses the playlist index from a staged file name.
func Index(name string) (int, bool) {
	base := filepath.Base(name)
	sep := strings.Index(base, " - ")
	if sep < 3 {
		return 0, false
	}
	n, err := strconv.Atoi(base[:sep])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Discover walks root and returns every finished media file, sorted by path.
func Discover(root string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A file vanishing mid-walk is the fetcher cleaning up its
			// intermediates, not a reason to fail the scan.
			if os.IsNotExist(err) && path != root {
				return nil
			}
			return err
		}
		if d.IsDir() || !IsMediaFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		idx, _ := Index(d.Name())
		files = append(files, File{
			Path:  path,
			Index: idx,
			Ext:   strings.ToLower(filepath.Ext(d.Name())),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk staging dir: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// FindItem returns the finished media files belonging to one playlist item.
// The search is limited to playlistDir when that folder exists, so a reused
// staging root holding another playlist's files cannot satisfy the item.
// When it does not exist (the fetcher rewrote the title into a different
// folder name) the whole root is searched.
func FindItem(root, playlistDir string, index int) ([]File, error) {
	scope := root
	if playlistDir != "" {
		if info, err := os.Stat(playlistDir); err == nil && info.IsDir() {
			scope = playlistDir
		}
	}

	all, err := Discover(scope)
	if err != nil {
		return nil, err
	}

	prefix := Prefix(index)
	var matches []File
	for _, f := range all {
		if strings.HasPrefix(f.Name(), prefix) {
			matches = append(matches, f)
		}
	}
	return matches, nil
}
