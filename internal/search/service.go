// Package search aggregates queries across every configured catalog source,
// tolerating partial source failures and collapsing duplicate releases into
// the copy from the highest-priority source.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"zenith/internal/catalog"
)

// Kind selects what a search request is looking for.
type Kind string

const (
	KindTrack    Kind = "track"
	KindAlbum    Kind = "album"
	KindArtist   Kind = "artist"
	KindPlaylist Kind = "playlist"
	KindAll      Kind = "all"
)

// ParseKind maps a request parameter onto a Kind, defaulting to KindAll.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindTrack, KindAlbum, KindArtist, KindPlaylist:
		return Kind(s)
	default:
		return KindAll
	}
}

const (
	// DefaultLimit is the per-source result cap when the caller does not set
	// one.
	DefaultLimit = 20
	// DefaultSourceTimeout bounds each individual source call.
	DefaultSourceTimeout = 10 * time.Second
)

// Results is the merged output of one aggregated search. Tracks and albums
// are deduplicated across sources; artists and playlists come from whichever
// sources can produce them and are passed through as-is.
type Results struct {
	Tracks    []catalog.Track    `json:"tracks"`
	Albums    []catalog.Album    `json:"albums"`
	Artists   []catalog.Artist   `json:"artists"`
	Playlists []catalog.Playlist `json:"playlists"`
}

// Aggregator fans a query out to every source concurrently and merges the
// answers in priority order. A source that errors or times out contributes
// nothing; the search itself never fails.
type Aggregator struct {
	sources []catalog.Catalog
	timeout time.Duration
	logger  zerolog.Logger
}

// NewAggregator creates an Aggregator. The order of sources is the merge
// priority: when two sources return the same track, the one listed first
// wins.
func NewAggregator(logger zerolog.Logger, timeout time.Duration, sources ...catalog.Catalog) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	return &Aggregator{
		sources: sources,
		timeout: timeout,
		logger:  logger,
	}
}

// sourceSlot holds one source's answers. Each fan-out goroutine owns exactly
// one field of one slot, so the collection phase needs no locking; the merge
// runs single-threaded after the WaitGroup drains.
type sourceSlot struct {
	tracks    []catalog.Track
	albums    []catalog.Album
	artists   []catalog.Artist
	playlists []catalog.Playlist
}

// Search runs the query against all sources for the requested kind. The
// returned Results is complete for whichever sources answered in time; when
// every source fails it is empty, not nil.
func (a *Aggregator) Search(ctx context.Context, query string, kind Kind, limit int) Results {
	if limit <= 0 {
		limit = DefaultLimit
	}

	slots := make([]sourceSlot, len(a.sources))
	var wg sync.WaitGroup

	for i, src := range a.sources {
		if kind == KindTrack || kind == KindAll {
			wg.Add(1)
			go func(i int, src catalog.Catalog) {
				defer wg.Done()
				tracks, err := a.callTracks(ctx, src, query, limit)
				if err != nil {
					a.warn(src, "tracks", query, err)
					return
				}
				slots[i].tracks = tracks
			}(i, src)
		}

		if kind == KindAlbum || kind == KindAll {
			wg.Add(1)
			go func(i int, src catalog.Catalog) {
				defer wg.Done()
				albums, err := a.callAlbums(ctx, src, query, limit)
				if err != nil {
					a.warn(src, "albums", query, err)
					return
				}
				slots[i].albums = albums
			}(i, src)
		}

		if kind == KindArtist || kind == KindAll {
			if as, ok := src.(catalog.ArtistSearcher); ok {
				wg.Add(1)
				go func(i int, src catalog.Catalog, as catalog.ArtistSearcher) {
					defer wg.Done()
					artists, err := a.callArtists(ctx, as, query, limit)
					if err != nil {
						a.warn(src, "artists", query, err)
						return
					}
					slots[i].artists = artists
				}(i, src, as)
			}
		}

		if kind == KindPlaylist || kind == KindAll {
			if ps, ok := src.(catalog.PlaylistSearcher); ok {
				wg.Add(1)
				go func(i int, src catalog.Catalog, ps catalog.PlaylistSearcher) {
					defer wg.Done()
					playlists, err := a.callPlaylists(ctx, ps, query, limit)
					if err != nil {
						a.warn(src, "playlists", query, err)
						return
					}
					slots[i].playlists = playlists
				}(i, src, ps)
			}
		}
	}

	wg.Wait()
	return a.merge(slots)
}

func (a *Aggregator) callTracks(ctx context.Context, src catalog.Catalog, query string, limit int) ([]catalog.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return src.SearchTracks(ctx, query, limit)
}

func (a *Aggregator) callAlbums(ctx context.Context, src catalog.Catalog, query string, limit int) ([]catalog.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return src.SearchAlbums(ctx, query, limit)
}

func (a *Aggregator) callArtists(ctx context.Context, src catalog.ArtistSearcher, query string, limit int) ([]catalog.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return src.SearchArtists(ctx, query, limit)
}

func (a *Aggregator) callPlaylists(ctx context.Context, src catalog.PlaylistSearcher, query string, limit int) ([]catalog.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return src.SearchPlaylists(ctx, query, limit)
}

func (a *Aggregator) warn(src catalog.Catalog, op, query string, err error) {
	a.logger.Warn().
		Err(err).
		Str("source", string(src.Source())).
		Str("op", op).
		Str("query", query).
		Msg("search source degraded")
}

// merge walks the slots in priority order. The first source to produce a
// given track or album signature owns it; later duplicates are dropped.
func (a *Aggregator) merge(slots []sourceSlot) Results {
	results := Results{
		Tracks:    []catalog.Track{},
		Albums:    []catalog.Album{},
		Artists:   []catalog.Artist{},
		Playlists: []catalog.Playlist{},
	}

	trackSeen := seenSet{}
	albumSeen := seenSet{}

	for _, slot := range slots {
		for _, t := range slot.tracks {
			if trackSeen.add(TrackSignature(t)) {
				results.Tracks = append(results.Tracks, t)
			}
		}
		for _, al := range slot.albums {
			if albumSeen.add(AlbumSignature(al)) {
				results.Albums = append(results.Albums, al)
			}
		}
		results.Artists = append(results.Artists, slot.artists...)
		results.Playlists = append(results.Playlists, slot.playlists...)
	}

	return results
}
