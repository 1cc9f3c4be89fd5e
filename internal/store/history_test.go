package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"zenith/internal/catalog"
)

func TestRecordPlay(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO play_history")).
		WithArgs("client-1", "12345", "qobuz", "One More Time", "Daft Punk", "Discovery",
			"https://img.example/cover.jpg", 320).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := New(db)
	if err := s.RecordPlay(context.Background(), "client-1", testTrack()); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecordPlayValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := New(db)
	if err := s.RecordPlay(context.Background(), "client-1", catalog.Track{Title: "no id"}); err == nil {
		t.Error("track without id accepted")
	}
}

func TestListHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	playedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"track_id", "source", "title", "artist", "album", "artwork_url", "duration", "played_at",
	}).
		AddRow("12345", "qobuz", "One More Time", "Daft Punk", "Discovery", "u1", 320, playedAt)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT track_id, source, title, artist, album, artwork_url, duration, played_at")).
		WithArgs("client-1", 10).
		WillReturnRows(rows)

	s := New(db)
	entries, err := s.ListHistory(context.Background(), "client-1", 10)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if !entries[0].PlayedAt.Equal(playedAt) {
		t.Errorf("PlayedAt = %v, want %v", entries[0].PlayedAt, playedAt)
	}
	if entries[0].Track.Source != catalog.SourceQobuz {
		t.Errorf("Source = %q, want qobuz", entries[0].Track.Source)
	}
}

func TestListHistoryDefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT track_id, source")).
		WithArgs("client-1", DefaultHistoryLimit).
		WillReturnRows(sqlmock.NewRows([]string{
			"track_id", "source", "title", "artist", "album", "artwork_url", "duration", "played_at",
		}))

	s := New(db)
	if _, err := s.ListHistory(context.Background(), "client-1", 0); err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
