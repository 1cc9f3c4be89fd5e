package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"zenith/internal/catalog"
	"zenith/internal/store"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	client := clientID(r)
	if client == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing X-Client-Id header"})
		return
	}

	tracks, err := s.library.ListFavorites(r.Context(), client)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Tracks []catalog.Track `json:"tracks"`
	}{Tracks: tracks})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	client := clientID(r)
	if client == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing X-Client-Id header"})
		return
	}

	var track catalog.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.library.AddFavorite(r.Context(), client, track); err != nil {
		switch {
		case errors.Is(err, store.ErrFavoriteExists):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "track already favorited"})
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	client := clientID(r)
	if client == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing X-Client-Id header"})
		return
	}

	source := r.PathValue("source")
	id := r.PathValue("id")
	if source == "" || id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing source or track id"})
		return
	}

	if err := s.library.RemoveFavorite(r.Context(), client, catalog.Source(source), id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "favorite not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	client := clientID(r)
	if client == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing X-Client-Id header"})
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

	entries, err := s.library.ListHistory(r.Context(), client, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		History []store.PlayEntry `json:"history"`
	}{History: entries})
}

func (s *Server) handleRecordPlay(w http.ResponseWriter, r *http.Request) {
	client := clientID(r)
	if client == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing X-Client-Id header"})
		return
	}

	var track catalog.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if err := s.library.RecordPlay(r.Context(), client, track); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusCreated)
}
