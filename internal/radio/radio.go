// Package radio produces "play something like this" recommendations from the
// primary catalog's search results.
package radio

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"zenith/internal/catalog"
)

// ErrNoRecommendation means the catalog answered but nothing playable other
// than the current track came back.
var ErrNoRecommendation = errors.New("no recommendation found")

// candidatePool is how many tracks one station query pulls before shuffling.
const candidatePool = 100

// Tracks in a seasonal context keep the listener in that context instead of
// wandering off into the artist's other work.
var christmasKeywords = []string{
	"christmas", "noël", "noel", "santa", "merry",
	"holiday", "navidad", "jingle", "snow", "hiver",
}

// Source is the slice of a catalog the station needs: a track lookup for the
// seed and a search for candidates.
type Source interface {
	GetTrack(ctx context.Context, id string) (catalog.Track, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]catalog.Track, error)
}

// Station picks the next track after the one currently playing. The pick is
// genre-driven when the seed track carries a genre, artist-driven otherwise,
// and context-driven for seasonal music.
type Station struct {
	source Source
	rng    *rand.Rand
	logger zerolog.Logger
}

func NewStation(logger zerolog.Logger, source Source) *Station {
	return &Station{
		source: source,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
}

// Next recommends a track to follow currentID by the given artist. Outside
// context mode the same artist is excluded so the station does not loop one
// discography.
func (s *Station) Next(ctx context.Context, artist, currentID string) (catalog.Track, error) {
	seed, err := s.source.GetTrack(ctx, currentID)
	if err != nil {
		return catalog.Track{}, fmt.Errorf("radio: look up seed track %q: %w", currentID, err)
	}

	query := artist
	if seed.Genre != "" {
		query = seed.Genre
	}

	contextMode := false
	if isSeasonal(seed.Title) || isSeasonal(seed.Album) {
		query = "Christmas Music"
		contextMode = true
	}

	candidates, err := s.source.SearchTracks(ctx, query, candidatePool)
	if err != nil {
		return catalog.Track{}, fmt.Errorf("radio: search candidates for %q: %w", query, err)
	}
	if len(candidates) == 0 {
		return catalog.Track{}, ErrNoRecommendation
	}

	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, c := range candidates {
		if c.ID == currentID {
			continue
		}
		if !contextMode && strings.EqualFold(c.Artist, artist) {
			continue
		}
		return asRadioTrack(c), nil
	}

	// Everything was filtered out; better to repeat than to stop the music.
	s.logger.Debug().
		Str("query", query).
		Str("current_id", currentID).
		Msg("radio pool exhausted, repeating a candidate")
	return asRadioTrack(candidates[0]), nil
}

func asRadioTrack(t catalog.Track) catalog.Track {
	t.Source = catalog.SourceRadio
	return t
}

func isSeasonal(s string) bool {
	lower := strings.ToLower(s)
	for _, k := range christmasKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
