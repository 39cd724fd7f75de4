package archive

import (
	"path/filepath"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/vmunix/ytarchive/internal/sanitize"
	"github.com/vmunix/ytarchive/internal/staging"
)

// driftThreshold is the Jaro-Winkler similarity below which a staged file
// is reported as not matching its listed title.
const driftThreshold = 0.6

// stagedTitle strips the "NNN - " prefix and the extension from a staged
// file name.
func stagedTitle(f staging.File) string {
	name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
	if _, after, ok := strings.Cut(name, " - "); ok {
		return after
	}
	return name
}

// titleSimilarity compares a listed title with the title part of a staged
// file. The fetcher rewrites characters that are unsafe in file names, so
// both sides are folded through the key sanitizer first.
func titleSimilarity(listed string, f staging.File) float64 {
	a := sanitize.Segment(listed)
	b := sanitize.Segment(stagedTitle(f))
	if a == b {
		return 1
	}
	return float64(edlib.JaroWinklerSimilarity(a, b))
}

// drifted reports whether the staged file looks like a different entry
// than the one listed, which happens when the playlist is reordered
// between listing and download. Entries without a listed title never
// drift.
func drifted(listed string, f staging.File) (float64, bool) {
	if strings.TrimSpace(listed) == "" {
		return 1, false
	}
	score := titleSimilarity(listed, f)
	return score, score < driftThreshold
}
