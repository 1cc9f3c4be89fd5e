package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"zenith/internal/catalog"
)

func testTrack() catalog.Track {
	return catalog.Track{
		ID:         "12345",
		Title:      "One More Time",
		Artist:     "Daft Punk",
		Album:      "Discovery",
		ArtworkURL: "https://img.example/cover.jpg",
		Duration:   320,
		BitDepth:   24,
		Source:     catalog.SourceQobuz,
	}
}

func TestAddFavorite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorites")).
		WithArgs("client-1", "12345", "qobuz", "One More Time", "Daft Punk", "Discovery",
			"https://img.example/cover.jpg", 320, 24).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := New(db)
	if err := s.AddFavorite(context.Background(), "client-1", testTrack()); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAddFavoriteDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO favorites")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	s := New(db)
	if err := s.AddFavorite(context.Background(), "client-1", testTrack()); !errors.Is(err, ErrFavoriteExists) {
		t.Errorf("got %v, want ErrFavoriteExists", err)
	}
}

func TestAddFavoriteValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := New(db)
	if err := s.AddFavorite(context.Background(), "", testTrack()); err == nil {
		t.Error("empty client id accepted")
	}
	if err := s.AddFavorite(context.Background(), "client-1", catalog.Track{}); err == nil {
		t.Error("track without id accepted")
	}
}

func TestRemoveFavorite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites")).
		WithArgs("client-1", "qobuz", "12345").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := New(db)
	if err := s.RemoveFavorite(context.Background(), "client-1", catalog.SourceQobuz, "12345"); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRemoveFavoriteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM favorites")).
		WithArgs("client-1", "qobuz", "nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := New(db)
	if err := s.RemoveFavorite(context.Background(), "client-1", catalog.SourceQobuz, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListFavorites(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"track_id", "source", "title", "artist", "album", "artwork_url", "duration", "bit_depth",
	}).
		AddRow("12345", "qobuz", "One More Time", "Daft Punk", "Discovery", "u1", 320, 24).
		AddRow("777", "deezer", "Veridis Quo", "Daft Punk", "Discovery", "u2", 345, 16)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT track_id, source, title, artist, album, artwork_url, duration, bit_depth")).
		WithArgs("client-1").
		WillReturnRows(rows)

	s := New(db)
	tracks, err := s.ListFavorites(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if tracks[0].Source != catalog.SourceQobuz || tracks[1].Source != catalog.SourceDeezer {
		t.Errorf("sources decoded wrong: %+v", tracks)
	}
}

func TestListFavoritesEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT track_id, source")).
		WithArgs("client-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"track_id", "source", "title", "artist", "album", "artwork_url", "duration", "bit_depth",
		}))

	s := New(db)
	tracks, err := s.ListFavorites(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if tracks == nil || len(tracks) != 0 {
		t.Errorf("got %v, want empty non-nil slice", tracks)
	}
}
