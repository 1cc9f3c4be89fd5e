// Package store provides Postgres persistence for per-client library state:
// favorite tracks and listening history. Clients are identified by an opaque
// id the frontend generates; there are no accounts.
package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound signals the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrFavoriteExists signals the track is already in the client's
	// favorites.
	ErrFavoriteExists = errors.New("favorite already exists")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
