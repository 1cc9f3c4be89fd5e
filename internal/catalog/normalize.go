package catalog

import (
	"fmt"
	"strings"
)

// Version strings the backing catalogs use for the standard release. These
// stay implicit: appending them would just clutter the title.
var standardVersions = map[string]struct{}{
	"album version":    {},
	"original version": {},
	"standard version": {},
	"remastered":       {},
	"remaster":         {},
	"single version":   {},
}

// displayTitle reconstructs the listener-facing title. Catalogs that tag a
// non-standard version ("Live at Wembley", "Slowed + Reverb") leave it out of
// the title field; it is appended in parentheses unless the title already
// carries it.
func displayTitle(title, version string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return UnknownName
	}
	version = strings.TrimSpace(version)
	if version == "" {
		return title
	}
	if _, standard := standardVersions[strings.ToLower(version)]; standard {
		return title
	}
	if strings.Contains(strings.ToLower(title), strings.ToLower(version)) {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, version)
}

func nameOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return UnknownName
}

func artworkOrPlaceholder(url string) string {
	if url = strings.TrimSpace(url); url != "" {
		return url
	}
	return PlaceholderArtwork
}

// bitDepthOrDefault clamps the source-reported quality hint to the two values
// the players understand.
func bitDepthOrDefault(depth int) int {
	if depth == 24 {
		return 24
	}
	return 16
}
