package store

import (
	"context"
	"fmt"
	"strings"

	"zenith/internal/catalog"
)

// AddFavorite stores a track in the client's favorites. Adding the same
// track twice returns ErrFavoriteExists.
func (s *Store) AddFavorite(ctx context.Context, clientID string, t catalog.Track) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" || t.ID == "" || t.Source == "" {
		return fmt.Errorf("client id, track id and source are required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (client_id, track_id, source, title, artist, album, artwork_url, duration, bit_depth)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, clientID, t.ID, string(t.Source), t.Title, t.Artist, t.Album, t.ArtworkURL, t.Duration, t.BitDepth)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrFavoriteExists
		}
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes one favorite. Removing a track that was never
// favorited returns ErrNotFound.
func (s *Store) RemoveFavorite(ctx context.Context, clientID string, source catalog.Source, trackID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE client_id = $1 AND source = $2 AND track_id = $3
	`, clientID, string(source), trackID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete favorite: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFavorites returns the client's favorites, most recently added first.
func (s *Store) ListFavorites(ctx context.Context, clientID string) ([]catalog.Track, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT track_id, source, title, artist, album, artwork_url, duration, bit_depth
		FROM favorites
		WHERE client_id = $1
		ORDER BY created_at DESC, id DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	tracks := []catalog.Track{}
	for rows.Next() {
		var (
			t      catalog.Track
			source string
		)
		if err := rows.Scan(&t.ID, &source, &t.Title, &t.Artist, &t.Album, &t.ArtworkURL, &t.Duration, &t.BitDepth); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		t.Source = catalog.Source(source)
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return tracks, nil
}
