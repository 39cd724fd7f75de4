// Package sanitize turns arbitrary file and directory names into URL-safe
// object storage keys.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// separators are whitespace and underscore runs, replaced by a single hyphen.
	separators = regexp.MustCompile(`[\s\p{Z}_]+`)

	// disallowed is everything outside the key alphabet.
	disallowed = regexp.MustCompile(`[^a-z0-9\-.]`)

	// multiHyphen matches repeated hyphens.
	multiHyphen = regexp.MustCompile(`-{2,}`)

	// extension is a trailing ".ext" made only of ASCII letters and digits.
	extension = regexp.MustCompile(`\.[A-Za-z0-9]+$`)
)

// Segment sanitizes a single directory name. The result contains only
// [a-z0-9-.] and never starts or ends with a hyphen.
func Segment(s string) string {
	s = removeAccents(s)
	s = strings.ToLower(s)
	s = separators.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = multiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Name sanitizes a file name while preserving its extension, which is
// lowercased but otherwise left alone.
//
//	Name("My Song (Live)!!.MP4") == "my-song-live.mp4"
func Name(s string) string {
	// Stripping characters can expose a new extension (or a hyphen in front
	// of one), so repeat until the value is stable. Every pass after the
	// first only removes characters, which bounds the loop.
	for {
		next := nameOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func nameOnce(s string) string {
	loc := extension.FindStringIndex(s)
	if loc == nil || loc[0] == 0 {
		return Segment(s)
	}
	return Segment(s[:loc[0]]) + strings.ToLower(s[loc[0]:])
}

// Path sanitizes a slash-separated relative path. Directory segments go
// through Segment, the final segment through Name. Segments that sanitize
// to nothing are dropped.
func Path(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")

	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		var clean string
		if i == len(parts)-1 {
			clean = Name(part)
		} else {
			clean = Segment(part)
		}
		if clean != "" {
			out = append(out, clean)
		}
	}
	if len(out) == 0 {
		return ""
	}

	// When the file name vanished, the last directory becomes the final
	// segment and has to satisfy the same rules on a second pass.
	out[len(out)-1] = Name(out[len(out)-1])
	if out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "/")
}

// removeAccents folds accented letters onto their base letter so "Café"
// keeps its "e" instead of losing it to the character filter.
func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}
