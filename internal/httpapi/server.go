// Package httpapi wires the HTTP surface to the search, resolve, lyrics,
// radio and library services.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"zenith/internal/catalog"
	"zenith/internal/lyrics"
	"zenith/internal/search"
	"zenith/internal/store"
)

// SearchService provides aggregated multi-source search.
type SearchService interface {
	Search(ctx context.Context, query string, kind search.Kind, limit int) search.Results
}

// ResolveService finds the best playable copy of a known track.
type ResolveService interface {
	Resolve(ctx context.Context, artist, title string) (catalog.Track, error)
}

// LyricsService finds lyrics for a track.
type LyricsService interface {
	Search(ctx context.Context, artist, title, album string, duration int) (lyrics.Result, error)
}

// RadioService recommends the next track to play.
type RadioService interface {
	Next(ctx context.Context, artist, currentID string) (catalog.Track, error)
}

// LibraryService persists per-client favorites and listening history.
type LibraryService interface {
	AddFavorite(ctx context.Context, clientID string, t catalog.Track) error
	RemoveFavorite(ctx context.Context, clientID string, source catalog.Source, trackID string) error
	ListFavorites(ctx context.Context, clientID string) ([]catalog.Track, error)
	RecordPlay(ctx context.Context, clientID string, t catalog.Track) error
	ListHistory(ctx context.Context, clientID string, limit int) ([]store.PlayEntry, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	search  SearchService
	resolve ResolveService
	lyrics  LyricsService
	radio   RadioService
	library LibraryService
}

// New configures a Server with the given service implementations.
func New(search SearchService, resolve ResolveService, lyrics LyricsService, radio RadioService, library LibraryService) *Server {
	return &Server{
		search:  search,
		resolve: resolve,
		lyrics:  lyrics,
		radio:   radio,
		library: library,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/v1/search", s.handleSearch)
	mux.HandleFunc("GET /api/v1/resolve", s.handleResolve)
	mux.HandleFunc("GET /api/v1/lyrics", s.handleLyrics)
	mux.HandleFunc("GET /api/v1/recommend", s.handleRecommend)

	mux.HandleFunc("GET /api/v1/me/favorites/tracks", s.handleListFavorites)
	mux.HandleFunc("POST /api/v1/me/favorites/tracks", s.handleAddFavorite)
	mux.HandleFunc("DELETE /api/v1/me/favorites/tracks/{source}/{id}", s.handleRemoveFavorite)

	mux.HandleFunc("GET /api/v1/me/history", s.handleListHistory)
	mux.HandleFunc("POST /api/v1/me/history", s.handleRecordPlay)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// clientID identifies the caller's library. The frontend generates it once
// and sends it on every library request.
func clientID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Client-Id"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
