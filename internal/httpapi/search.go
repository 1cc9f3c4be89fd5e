package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"zenith/internal/catalog"
	"zenith/internal/lyrics"
	"zenith/internal/radio"
	"zenith/internal/resolve"
	"zenith/internal/search"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing q parameter"})
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit parameter"})
			return
		}
		limit = parsed
	}

	kind := search.ParseKind(r.URL.Query().Get("type"))
	results := s.search.Search(r.Context(), query, kind, limit)
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	artist := r.URL.Query().Get("artist")
	title := r.URL.Query().Get("title")
	if artist == "" || title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artist and title parameters are required"})
		return
	}

	track, err := s.resolve.Resolve(r.Context(), artist, title)
	if err != nil {
		switch {
		case errors.Is(err, resolve.ErrNoMatch):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no matching track found"})
		case errors.Is(err, catalog.ErrUnavailable):
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "all sources unavailable"})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, track)
}

type lyricsResponse struct {
	Type   string  `json:"type"`
	Lyrics *string `json:"lyrics"`
}

func (s *Server) handleLyrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	artist := q.Get("artist")
	title := q.Get("title")
	if artist == "" || title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artist and title parameters are required"})
		return
	}

	duration := 0
	if durStr := q.Get("duration"); durStr != "" {
		if parsed, err := strconv.ParseFloat(durStr, 64); err == nil {
			duration = int(parsed)
		}
	}

	result, err := s.lyrics.Search(r.Context(), artist, title, q.Get("album"), duration)
	if err != nil {
		switch {
		case errors.Is(err, lyrics.ErrNotFound):
			writeJSON(w, http.StatusNotFound, lyricsResponse{Type: "none"})
		case errors.Is(err, lyrics.ErrUnavailable):
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "lyrics provider unavailable"})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	switch {
	case result.Instrumental:
		writeJSON(w, http.StatusNotFound, lyricsResponse{Type: "none"})
	case result.Synced != "":
		if q.Get("format") == "srt" {
			srt := lyrics.LRCToSRT(result.Synced)
			writeJSON(w, http.StatusOK, lyricsResponse{Type: "srt", Lyrics: &srt})
			return
		}
		writeJSON(w, http.StatusOK, lyricsResponse{Type: "synced", Lyrics: &result.Synced})
	case result.Plain != "":
		writeJSON(w, http.StatusOK, lyricsResponse{Type: "plain", Lyrics: &result.Plain})
	default:
		writeJSON(w, http.StatusNotFound, lyricsResponse{Type: "none"})
	}
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	artist := r.URL.Query().Get("artist")
	currentID := r.URL.Query().Get("current_id")
	if artist == "" || currentID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "artist and current_id parameters are required"})
		return
	}

	track, err := s.radio.Next(r.Context(), artist, currentID)
	if err != nil {
		switch {
		case errors.Is(err, radio.ErrNoRecommendation):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no recommendation found"})
		case errors.Is(err, catalog.ErrUnavailable):
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "source unavailable"})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, track)
}
