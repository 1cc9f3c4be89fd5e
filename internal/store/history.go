package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zenith/internal/catalog"
)

// PlayEntry is one listening-history row.
type PlayEntry struct {
	Track    catalog.Track `json:"track"`
	PlayedAt time.Time     `json:"played_at"`
}

// DefaultHistoryLimit caps a history listing when the caller does not set a
// limit.
const DefaultHistoryLimit = 50

// RecordPlay appends a track to the client's listening history.
func (s *Store) RecordPlay(ctx context.Context, clientID string, t catalog.Track) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" || t.ID == "" || t.Source == "" {
		return fmt.Errorf("client id, track id and source are required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO play_history (client_id, track_id, source, title, artist, album, artwork_url, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, clientID, t.ID, string(t.Source), t.Title, t.Artist, t.Album, t.ArtworkURL, t.Duration)
	if err != nil {
		return fmt.Errorf("insert play: %w", err)
	}
	return nil
}

// ListHistory returns the client's most recent plays, newest first.
func (s *Store) ListHistory(ctx context.Context, clientID string, limit int) ([]PlayEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT track_id, source, title, artist, album, artwork_url, duration, played_at
		FROM play_history
		WHERE client_id = $1
		ORDER BY played_at DESC, id DESC
		LIMIT $2
	`, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := []PlayEntry{}
	for rows.Next() {
		var (
			e      PlayEntry
			source string
		)
		if err := rows.Scan(&e.Track.ID, &source, &e.Track.Title, &e.Track.Artist, &e.Track.Album,
			&e.Track.ArtworkURL, &e.Track.Duration, &e.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		e.Track.Source = catalog.Source(source)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}
