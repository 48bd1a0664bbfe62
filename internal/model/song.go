package model

import (
	"regexp"
	"strings"
)

// SpecialKeywords flag performances worth calling out: debuts,
// dedications, guest appearances and genre variants.
var SpecialKeywords = []string{
	"first time",
	"dedicated",
	"with Sadler",
	"bluegrass",
}

var (
	// innermost parenthetical group; applied repeatedly to peel nested groups
	parenGroup = regexp.MustCompile(`\([^()]*\)`)
	whitespace = regexp.MustCompile(`\s+`)
)

// CleanSong strips annotations from a raw song title.
//
// The following transformations are applied:
//   - Every parenthetical group is removed, nested groups included
//   - Runs of whitespace are collapsed to a single space
//   - Leading and trailing whitespace is removed
//
// Unbalanced parentheses are left in place.
//
// Example:
//
//	CleanSong("Flying Over Water (first time since 2019)") // "Flying Over Water"
//	CleanSong("Song (live (acoustic))")                    // "Song"
//	CleanSong("24 Frames (cover) (with Sadler)")           // "24 Frames"
func CleanSong(song string) string {
	for {
		stripped := parenGroup.ReplaceAllString(song, "")
		if stripped == song {
			break
		}
		song = stripped
	}
	song = whitespace.ReplaceAllString(song, " ")
	return strings.TrimSpace(song)
}

// IsCover reports whether the raw song text marks a cover.
func IsCover(song string) bool {
	return ContainsFold(song, "cover")
}

// IsSpecial reports whether the raw song text matches any SpecialKeywords entry.
func IsSpecial(song string) bool {
	for _, kw := range SpecialKeywords {
		if ContainsFold(song, kw) {
			return true
		}
	}
	return false
}

// ContainsFold reports whether substr is within s, ignoring case.
// An empty substr always matches.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
