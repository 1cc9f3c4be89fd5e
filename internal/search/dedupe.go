package search

import (
	"zenith/internal/catalog"
	"zenith/internal/match"
)

// TrackSignature folds a track down to the identity used for cross-source
// deduplication: the cleaned base title plus the cleaned artist. Tracks from
// different sources with the same signature are the same recording as far as
// the merge is concerned.
func TrackSignature(t catalog.Track) string {
	return match.Clean(match.CleanTitle(t.Title)) + "|" + match.Clean(t.Artist)
}

// AlbumSignature is the album analogue of TrackSignature.
func AlbumSignature(a catalog.Album) string {
	return match.Clean(match.CleanTitle(a.Title)) + "|" + match.Clean(a.Artist)
}

// seenSet tracks signatures already emitted during a merge.
type seenSet map[string]struct{}

// add records sig and reports whether it was new. Empty signatures (a track
// with neither usable title nor artist) never collide.
func (s seenSet) add(sig string) bool {
	if sig == "|" {
		return true
	}
	if _, dup := s[sig]; dup {
		return false
	}
	s[sig] = struct{}{}
	return true
}
