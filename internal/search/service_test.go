package search

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"zenith/internal/catalog"
)

// stubCatalog is a canned-answer source for aggregator tests.
type stubCatalog struct {
	source    catalog.Source
	tracks    []catalog.Track
	albums    []catalog.Album
	err       error
	blockCtx  bool
	trackHits int
}

func (s *stubCatalog) Source() catalog.Source { return s.source }

func (s *stubCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]catalog.Track, error) {
	s.trackHits++
	if s.blockCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.tracks, nil
}

func (s *stubCatalog) SearchAlbums(ctx context.Context, query string, limit int) ([]catalog.Album, error) {
	if s.blockCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.albums, nil
}

// stubArtistCatalog adds artist search on top of stubCatalog.
type stubArtistCatalog struct {
	stubCatalog
	artists []catalog.Artist
}

func (s *stubArtistCatalog) SearchArtists(ctx context.Context, query string, limit int) ([]catalog.Artist, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.artists, nil
}

func track(source catalog.Source, id, title, artist string) catalog.Track {
	return catalog.Track{ID: id, Title: title, Artist: artist, Duration: 320, Source: source}
}

func TestSearchDeduplicatesAcrossSources(t *testing.T) {
	primary := &stubCatalog{
		source: catalog.SourceQobuz,
		tracks: []catalog.Track{
			track(catalog.SourceQobuz, "q1", "One More Time", "Daft Punk"),
			track(catalog.SourceQobuz, "q2", "Aerodynamic", "Daft Punk"),
		},
	}
	secondary := &stubCatalog{
		source: catalog.SourceTidal,
		tracks: []catalog.Track{
			// Same recording under an edition title: must collapse into the
			// primary's copy.
			track(catalog.SourceTidal, "t1", "One More Time (Remastered)", "Daft Punk"),
			track(catalog.SourceTidal, "t2", "Veridis Quo", "Daft Punk"),
		},
	}

	agg := NewAggregator(zerolog.Nop(), time.Second, primary, secondary)
	results := agg.Search(context.Background(), "daft punk", KindTrack, 20)

	if len(results.Tracks) != 3 {
		t.Fatalf("got %d tracks, want 3: %+v", len(results.Tracks), results.Tracks)
	}
	for _, tr := range results.Tracks {
		if tr.Title == "One More Time (Remastered)" {
			t.Errorf("duplicate edition survived the merge: %+v", tr)
		}
	}
	if results.Tracks[0].Source != catalog.SourceQobuz {
		t.Errorf("first track came from %s, want the priority source", results.Tracks[0].Source)
	}
}

func TestSearchPriorityOrderIndependentOfCompletionOrder(t *testing.T) {
	// The slow primary must still win the duplicate even though the
	// secondary answers first.
	slow := &stubCatalog{
		source: catalog.SourceQobuz,
		tracks: []catalog.Track{track(catalog.SourceQobuz, "q1", "One More Time", "Daft Punk")},
	}
	fast := &stubCatalog{
		source: catalog.SourceTidal,
		tracks: []catalog.Track{track(catalog.SourceTidal, "t1", "One More Time", "Daft Punk")},
	}

	agg := NewAggregator(zerolog.Nop(), time.Second, slow, fast)
	for i := 0; i < 20; i++ {
		results := agg.Search(context.Background(), "daft punk", KindTrack, 20)
		if len(results.Tracks) != 1 {
			t.Fatalf("got %d tracks, want 1", len(results.Tracks))
		}
		if results.Tracks[0].Source != catalog.SourceQobuz {
			t.Fatalf("iteration %d: winner from %s, want qobuz", i, results.Tracks[0].Source)
		}
	}
}

func TestSearchToleratesSourceFailure(t *testing.T) {
	broken := &stubCatalog{source: catalog.SourceQobuz, err: catalog.ErrUnavailable}
	healthy := &stubCatalog{
		source: catalog.SourceDeezer,
		tracks: []catalog.Track{track(catalog.SourceDeezer, "d1", "One More Time", "Daft Punk")},
	}

	agg := NewAggregator(zerolog.Nop(), time.Second, broken, healthy)
	results := agg.Search(context.Background(), "daft punk", KindTrack, 20)

	if len(results.Tracks) != 1 || results.Tracks[0].Source != catalog.SourceDeezer {
		t.Fatalf("got %+v, want the healthy source's track", results.Tracks)
	}
}

func TestSearchAllSourcesFailing(t *testing.T) {
	agg := NewAggregator(zerolog.Nop(), time.Second,
		&stubCatalog{source: catalog.SourceQobuz, err: catalog.ErrUnavailable},
		&stubCatalog{source: catalog.SourceTidal, err: errors.New("boom")},
	)
	results := agg.Search(context.Background(), "daft punk", KindAll, 20)

	if results.Tracks == nil || results.Albums == nil || results.Artists == nil || results.Playlists == nil {
		t.Fatal("result slices must be empty, not nil")
	}
	if len(results.Tracks) != 0 || len(results.Albums) != 0 {
		t.Fatalf("got %+v, want empty results", results)
	}
}

func TestSearchSourceTimeout(t *testing.T) {
	hung := &stubCatalog{source: catalog.SourceQobuz, blockCtx: true}
	healthy := &stubCatalog{
		source: catalog.SourceTidal,
		tracks: []catalog.Track{track(catalog.SourceTidal, "t1", "One More Time", "Daft Punk")},
	}

	agg := NewAggregator(zerolog.Nop(), 50*time.Millisecond, hung, healthy)

	start := time.Now()
	results := agg.Search(context.Background(), "daft punk", KindTrack, 20)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("search took %v, hung source was not cut off", elapsed)
	}

	if len(results.Tracks) != 1 || results.Tracks[0].Source != catalog.SourceTidal {
		t.Fatalf("got %+v, want only the healthy source's track", results.Tracks)
	}
}

func TestSearchKindArtistSkipsIncapableSources(t *testing.T) {
	trackOnly := &stubCatalog{source: catalog.SourceQobuz}
	withArtists := &stubArtistCatalog{
		stubCatalog: stubCatalog{source: catalog.SourceDeezer},
		artists:     []catalog.Artist{{ID: "27", Name: "Daft Punk", Source: catalog.SourceDeezer}},
	}

	agg := NewAggregator(zerolog.Nop(), time.Second, trackOnly, withArtists)
	results := agg.Search(context.Background(), "daft punk", KindArtist, 20)

	if len(results.Artists) != 1 || results.Artists[0].Name != "Daft Punk" {
		t.Fatalf("got %+v, want one artist", results.Artists)
	}
	if trackOnly.trackHits != 0 {
		t.Errorf("artist-only search hit SearchTracks %d times", trackOnly.trackHits)
	}
}

func TestSearchIdempotent(t *testing.T) {
	agg := NewAggregator(zerolog.Nop(), time.Second,
		&stubCatalog{
			source: catalog.SourceQobuz,
			tracks: []catalog.Track{
				track(catalog.SourceQobuz, "q1", "One More Time", "Daft Punk"),
				track(catalog.SourceQobuz, "q2", "One More Time (Live)", "Daft Punk"),
			},
		},
	)

	first := agg.Search(context.Background(), "daft punk", KindTrack, 20)
	second := agg.Search(context.Background(), "daft punk", KindTrack, 20)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated search differed:\n%+v\n%+v", first, second)
	}
	// Edition duplicates collapse even within a single source.
	if len(first.Tracks) != 1 {
		t.Errorf("got %d tracks, want 1", len(first.Tracks))
	}
}

func TestTrackSignature(t *testing.T) {
	a := track(catalog.SourceQobuz, "1", "01. One More Time (Remastered)", "Daft Punk")
	b := track(catalog.SourceTidal, "2", "One More Time", "daft punk")
	if TrackSignature(a) != TrackSignature(b) {
		t.Errorf("signatures differ: %q vs %q", TrackSignature(a), TrackSignature(b))
	}

	c := track(catalog.SourceTidal, "3", "One More Time", "Daft Punk Tribute Band")
	if TrackSignature(a) == TrackSignature(c) {
		t.Error("different artists produced the same signature")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"track", KindTrack},
		{"album", KindAlbum},
		{"artist", KindArtist},
		{"playlist", KindPlaylist},
		{"", KindAll},
		{"all", KindAll},
		{"bogus", KindAll},
	}
	for _, tc := range tests {
		if got := ParseKind(tc.in); got != tc.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
