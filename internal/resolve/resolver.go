// Package resolve finds the best playable copy of a known track across the
// configured catalog sources.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"zenith/internal/catalog"
	"zenith/internal/match"
)

// ErrNoMatch means every reachable source answered but none of the candidates
// cleared the similarity thresholds. It is distinct from all sources being
// down.
var ErrNoMatch = errors.New("no matching track found")

const (
	// DefaultArtistThreshold is the similarity a candidate's artist must
	// exceed. It is tuned so a tribute band does not pass for the real thing.
	DefaultArtistThreshold = 65
	// DefaultTitleThreshold is the similarity a candidate's cleaned title
	// must exceed, unless one cleaned title contains the other outright.
	DefaultTitleThreshold = 60

	searchLimit   = 20
	sourceTimeout = 10 * time.Second
)

// Config carries the resolver's tunable thresholds. Zero values fall back to
// the defaults.
type Config struct {
	ArtistThreshold int
	TitleThreshold  int
}

// Resolver walks the sources in priority order and returns the first
// acceptable candidate.
type Resolver struct {
	sources         []catalog.Catalog
	scorer          match.Scorer
	artistThreshold int
	titleThreshold  int
	logger          zerolog.Logger
}

// NewResolver creates a Resolver over the given sources, highest priority
// first.
func NewResolver(logger zerolog.Logger, cfg Config, sources ...catalog.Catalog) *Resolver {
	if cfg.ArtistThreshold <= 0 {
		cfg.ArtistThreshold = DefaultArtistThreshold
	}
	if cfg.TitleThreshold <= 0 {
		cfg.TitleThreshold = DefaultTitleThreshold
	}
	return &Resolver{
		sources:         sources,
		scorer:          match.NewScorer(),
		artistThreshold: cfg.ArtistThreshold,
		titleThreshold:  cfg.TitleThreshold,
		logger:          logger,
	}
}

// Resolve searches each source in turn for artist/title and returns the best
// candidate from the first source that has one. When every source is
// unreachable the error wraps catalog.ErrUnavailable; when sources answered
// but nothing matched it is ErrNoMatch.
func (r *Resolver) Resolve(ctx context.Context, artist, title string) (catalog.Track, error) {
	query := strings.TrimSpace(artist + " " + title)
	wantArtist := match.Clean(artist)
	wantTitle := match.Clean(match.CleanTitle(title))

	anyAnswered := false
	for _, src := range r.sources {
		candidates, err := r.searchSource(ctx, src, query)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Str("source", string(src.Source())).
				Str("query", query).
				Msg("resolve source degraded")
			continue
		}
		anyAnswered = true

		if best, ok := r.pickBest(candidates, wantArtist, wantTitle); ok {
			return best, nil
		}
	}

	if !anyAnswered {
		return catalog.Track{}, fmt.Errorf("resolve %q: all sources failed: %w", query, catalog.ErrUnavailable)
	}
	return catalog.Track{}, ErrNoMatch
}

func (r *Resolver) searchSource(ctx context.Context, src catalog.Catalog, query string) ([]catalog.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, sourceTimeout)
	defer cancel()
	return src.SearchTracks(ctx, query, searchLimit)
}

// pickBest scores every candidate and returns the highest-scoring one that
// clears both thresholds.
func (r *Resolver) pickBest(candidates []catalog.Track, wantArtist, wantTitle string) (catalog.Track, bool) {
	var best catalog.Track
	bestScore := -1

	for _, c := range candidates {
		gotArtist := match.Clean(c.Artist)
		gotTitle := match.Clean(match.CleanTitle(c.Title))

		artistSim := r.scorer.Similarity(wantArtist, gotArtist)
		if artistSim <= r.artistThreshold {
			continue
		}

		titleSim := r.scorer.Similarity(wantTitle, gotTitle)
		if titleSim <= r.titleThreshold && !titlesContain(wantTitle, gotTitle) {
			continue
		}

		if score := artistSim + titleSim; score > bestScore {
			best = c
			bestScore = score
		}
	}

	return best, bestScore >= 0
}

// titlesContain accepts title pairs like "adagio" vs "adagio for strings"
// that a pure edit-distance score undervalues.
func titlesContain(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
