package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL    string
	Addr           string
	AllowedOrigins []string

	LogLevel  string
	LogFormat string

	QobuzAppID         string
	QobuzUserAuthToken string

	TidalClientID     string
	TidalClientSecret string

	AppleMusicKeyID      string
	AppleMusicTeamID     string
	AppleMusicPrivateKey string

	// SourcePriority orders the catalogs for aggregation and resolution;
	// earlier sources win deduplication ties.
	SourcePriority []string

	SourceTimeout time.Duration

	ResolveArtistThreshold int
	ResolveTitleThreshold  int

	LyricsArtistThreshold  int
	LyricsMaxDurationDelta int
}

func loadConfig() (Config, error) {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return Config{}, errors.New("DATABASE_URL env var is required")
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))

	timeoutSecs, err := envInt("SEARCH_SOURCE_TIMEOUT", 10)
	if err != nil {
		return Config{}, err
	}

	resolveArtist, err := envInt("RESOLVE_ARTIST_THRESHOLD", 0)
	if err != nil {
		return Config{}, err
	}
	resolveTitle, err := envInt("RESOLVE_TITLE_THRESHOLD", 0)
	if err != nil {
		return Config{}, err
	}
	lyricsArtist, err := envInt("LYRICS_ARTIST_THRESHOLD", 0)
	if err != nil {
		return Config{}, err
	}
	lyricsDelta, err := envInt("LYRICS_MAX_DURATION_DELTA", 0)
	if err != nil {
		return Config{}, err
	}

	return Config{
		DatabaseURL:    dsn,
		Addr:           addr,
		AllowedOrigins: splitList(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		QobuzAppID:         os.Getenv("QOBUZ_APP_ID"),
		QobuzUserAuthToken: os.Getenv("QOBUZ_USER_AUTH_TOKEN"),

		TidalClientID:     os.Getenv("TIDAL_CLIENT_ID"),
		TidalClientSecret: os.Getenv("TIDAL_CLIENT_SECRET"),

		AppleMusicKeyID:      os.Getenv("APPLE_MUSIC_KEY_ID"),
		AppleMusicTeamID:     os.Getenv("APPLE_MUSIC_TEAM_ID"),
		AppleMusicPrivateKey: os.Getenv("APPLE_MUSIC_PRIVATE_KEY"),

		SourcePriority: splitList(envOrDefault("SOURCE_PRIORITY", "qobuz,tidal,deezer,apple_music")),

		SourceTimeout: time.Duration(timeoutSecs) * time.Second,

		ResolveArtistThreshold: resolveArtist,
		ResolveTitleThreshold:  resolveTitle,

		LyricsArtistThreshold:  lyricsArtist,
		LyricsMaxDurationDelta: lyricsDelta,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return value, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	var values []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
