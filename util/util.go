package util //import "github.com/hondana-dev/hondana/util"

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenUUID() string {
	return uuid.New().String()
}

// TimeNow returns the current time in the format persisted to sqlite.
func TimeNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// HasPrefixes returns true if the string s has any of the given prefixes.
func HasPrefixes(src string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(src, prefix) {
			return true
		}
	}
	return false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeText trims the string and collapses inner whitespace runs into
// single spaces.
func SanitizeText(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// trailing volume/issue markers: "Title 3", "Title #3", "Title vol. 3",
// "タイトル 第3巻"
var volumeMarker = regexp.MustCompile(`\s+(?:#|[Vv]ol\.?\s*|第)?\d+巻?$`)

// StripVolumeMarker removes a trailing whitespace-separated volume token
// from a book title so it can serve as a series title:
// "Sample Manga 5" -> "Sample Manga".
func StripVolumeMarker(title string) string {
	stripped := volumeMarker.ReplaceAllString(title, "")
	if stripped == "" {
		return title
	}
	return stripped
}

// ParseTrailingVolume extracts a trailing volume number from a title,
// returning nil when none is present.
func ParseTrailingVolume(title string) *int {
	m := volumeMarker.FindString(title)
	if m == "" {
		return nil
	}
	digits := regexp.MustCompile(`\d+`).FindString(m)
	if digits == "" {
		return nil
	}
	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return nil
	}
	return &n
}
