// Package lyrics finds timed or plain lyrics for a track, with strict
// filtering so a cover or a karaoke upload never passes for the original.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"zenith/internal/match"
)

// ErrNotFound means the providers answered but no candidate survived the
// filters.
var ErrNotFound = errors.New("lyrics not found")

const (
	// DefaultArtistThreshold is the minimum artist similarity for a
	// candidate to be considered at all.
	DefaultArtistThreshold = 85
	// DefaultMaxDurationDelta is the largest track-length disagreement, in
	// seconds, a candidate may have with the requested track.
	DefaultMaxDurationDelta = 100

	// syncedBonus puts any synced candidate ahead of every plain one.
	syncedBonus = 100
	// instrumentalStubMaxLen bounds how long a lyrics body can be and still
	// count as an "[Instrumental]" placeholder.
	instrumentalStubMaxLen = 30
)

var (
	instrumentalKeywords = []string{"instrumental", "инструментал"}
	// Words that mean an "instrumental" title still has singing on it.
	vocalExceptions = []string{"feat", "vocals", "with", "sung"}

	bracketedMetaRe = regexp.MustCompile(`\[.*?\]`)
)

// Result is the outcome of a lyrics search. Instrumental means the track was
// positively identified as having no lyrics, which is an answer, not a miss.
type Result struct {
	Plain        string
	Synced       string
	Instrumental bool
}

// Config carries the engine's tunable thresholds. Zero values fall back to
// the defaults.
type Config struct {
	ArtistThreshold  int
	MaxDurationDelta int
}

// Engine matches a track against lyrics-provider candidates. Synced lyrics
// always win over plain ones, even when the plain candidate scores higher on
// everything else.
type Engine struct {
	provider         Provider
	scorer           match.Scorer
	artistThreshold  int
	maxDurationDelta float64
	logger           zerolog.Logger
}

func NewEngine(logger zerolog.Logger, cfg Config, provider Provider) *Engine {
	if cfg.ArtistThreshold <= 0 {
		cfg.ArtistThreshold = DefaultArtistThreshold
	}
	if cfg.MaxDurationDelta <= 0 {
		cfg.MaxDurationDelta = DefaultMaxDurationDelta
	}
	return &Engine{
		provider:         provider,
		scorer:           match.NewScorer(),
		artistThreshold:  cfg.ArtistThreshold,
		maxDurationDelta: float64(cfg.MaxDurationDelta),
		logger:           logger,
	}
}

// Search finds lyrics for the given track. The artist is tried verbatim
// first, then with accents stripped; a synced hit from either attempt beats a
// plain hit from the first.
func (e *Engine) Search(ctx context.Context, artist, title, album string, duration int) (Result, error) {
	if titleSaysInstrumental(title) {
		return Result{Instrumental: true}, nil
	}

	attempts := []string{artist}
	if stripped := match.StripAccents(artist); stripped != artist {
		attempts = append(attempts, stripped)
	}

	var (
		reserve    *Result
		anyAnswer  bool
		lastErr    error
		cleanTitle = match.CleanTitle(title)
	)

	for _, attemptArtist := range attempts {
		candidates, err := e.provider.Search(ctx, attemptArtist, title, album)
		if err != nil {
			e.logger.Warn().
				Err(err).
				Str("artist", attemptArtist).
				Str("title", title).
				Msg("lyrics provider degraded")
			lastErr = err
			continue
		}
		anyAnswer = true
		if len(candidates) == 0 {
			continue
		}

		if best := e.findBest(candidates, attemptArtist, cleanTitle, duration, true); best != nil {
			if best.Instrumental || isInstrumentalStub(best.SyncedLyrics) {
				return Result{Instrumental: true}, nil
			}
			return Result{
				Plain:  LRCToPlain(best.SyncedLyrics),
				Synced: best.SyncedLyrics,
			}, nil
		}

		if reserve == nil {
			if best := e.findBest(candidates, attemptArtist, cleanTitle, duration, false); best != nil {
				if best.Instrumental || isInstrumentalStub(best.PlainLyrics) {
					return Result{Instrumental: true}, nil
				}
				reserve = &Result{Plain: best.PlainLyrics}
			}
		}
	}

	if reserve != nil {
		return *reserve, nil
	}
	if !anyAnswer && lastErr != nil {
		return Result{}, fmt.Errorf("lyrics search %q - %q: %w", artist, title, lastErr)
	}
	return Result{}, ErrNotFound
}

// findBest applies the eligibility filters and returns the highest-scoring
// survivor, or nil.
func (e *Engine) findBest(candidates []Candidate, artist, cleanTitle string, duration int, requireSynced bool) *Candidate {
	var best *Candidate
	bestScore := 0.0

	for i := range candidates {
		c := &candidates[i]

		if requireSynced {
			if c.SyncedLyrics == "" {
				continue
			}
		} else if c.PlainLyrics == "" && c.SyncedLyrics == "" {
			continue
		}

		artistScore := e.scorer.Similarity(strings.ToLower(artist), strings.ToLower(c.ArtistName))
		if artistScore < e.artistThreshold {
			continue
		}

		if match.CleanTitle(c.TrackName) != cleanTitle {
			continue
		}

		durationDiff := float64(duration) - c.Duration
		if durationDiff < 0 {
			durationDiff = -durationDiff
		}
		if duration > 0 && durationDiff > e.maxDurationDelta {
			continue
		}

		score := float64(artistScore) - durationDiff*10
		if c.SyncedLyrics != "" {
			score += syncedBonus
		}

		if best == nil || score > bestScore {
			best = c
			bestScore = score
		}
	}

	return best
}

// titleSaysInstrumental reports whether the title alone marks the track as
// instrumental, unless it also promises vocals ("Instrumental feat. ...").
func titleSaysInstrumental(title string) bool {
	lower := strings.ToLower(title)
	keyword := false
	for _, k := range instrumentalKeywords {
		if strings.Contains(lower, k) {
			keyword = true
			break
		}
	}
	if !keyword {
		return false
	}
	for _, w := range vocalExceptions {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

// isInstrumentalStub reports whether a lyrics body is just an
// "[Instrumental]" placeholder rather than actual lyrics.
func isInstrumentalStub(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	plain := strings.ToLower(strings.TrimSpace(bracketedMetaRe.ReplaceAllString(text, "")))
	if plain == "" {
		return false
	}
	if utf8.RuneCountInString(plain) >= instrumentalStubMaxLen {
		return false
	}
	for _, k := range instrumentalKeywords {
		if strings.Contains(plain, k) {
			return true
		}
	}
	return false
}
