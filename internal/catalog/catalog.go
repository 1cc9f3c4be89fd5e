// Package catalog defines the canonical track/album representation shared by
// every music source and the adapter contracts the aggregation core consumes.
// Each backing catalog decodes its own wire shape and converts it into the
// canonical types here; nothing outside this package sees a raw response.
package catalog

import (
	"context"
	"errors"
)

// Source identifies a backing catalog.
type Source string

const (
	SourceQobuz      Source = "qobuz"
	SourceTidal      Source = "tidal"
	SourceDeezer     Source = "deezer"
	SourceAppleMusic Source = "apple_music"
	// SourceRadio tags tracks produced by the recommendation flow rather
	// than a direct catalog search.
	SourceRadio Source = "radio"
)

const (
	// UnknownName substitutes for a missing title or artist so downstream
	// consumers never deal with empty identity fields.
	UnknownName = "Unknown"
	// PlaceholderArtwork substitutes for a missing cover image.
	PlaceholderArtwork = "https://static.qobuz.com/img/common/default_cover_600.png"
)

var (
	// ErrUnavailable marks a source that could not be reached or refused the
	// request (network failure, timeout, missing credentials, non-200).
	ErrUnavailable = errors.New("catalog source unavailable")
	// ErrMalformed marks a response whose shape could not be decoded. The
	// aggregation layer treats it exactly like ErrUnavailable.
	ErrMalformed = errors.New("malformed catalog response")
)

// Track is the canonical track representation. ID is unique only within a
// single Source.
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	ArtworkURL string `json:"artwork_url,omitempty"`
	Duration   int    `json:"duration"`
	BitDepth   int    `json:"bit_depth"`
	Genre      string `json:"genre,omitempty"`
	Source     Source `json:"source"`
}

// Album is the canonical album representation.
type Album struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	ArtworkURL string `json:"artwork_url,omitempty"`
	Source     Source `json:"source"`
}

// Artist is the canonical artist representation. Only fallback sources
// currently produce artists; they are merged without deduplication.
type Artist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url,omitempty"`
	Source     Source `json:"source"`
}

// Playlist is the canonical playlist representation.
type Playlist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ArtworkURL  string `json:"artwork_url,omitempty"`
	TrackCount  int    `json:"track_count"`
	Source      Source `json:"source"`
}

// Catalog is the adapter contract every source implements. Errors wrap
// ErrUnavailable or ErrMalformed; neither is fatal to multi-source
// aggregation.
type Catalog interface {
	Source() Source
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)
	SearchAlbums(ctx context.Context, query string, limit int) ([]Album, error)
}

// ArtistSearcher is an optional capability for sources that can search
// artists.
type ArtistSearcher interface {
	SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error)
}

// PlaylistSearcher is an optional capability for sources that can search
// playlists.
type PlaylistSearcher interface {
	SearchPlaylists(ctx context.Context, query string, limit int) ([]Playlist, error)
}

// TrackGetter is an optional capability for sources that can fetch a single
// track by its source-scoped id.
type TrackGetter interface {
	GetTrack(ctx context.Context, id string) (Track, error)
}
