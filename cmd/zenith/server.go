package main

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"zenith/internal/catalog"
	"zenith/internal/http/middleware"
	"zenith/internal/httpapi"
	"zenith/internal/lyrics"
	"zenith/internal/radio"
	"zenith/internal/resolve"
	"zenith/internal/search"
	"zenith/internal/store"
)

const lyricsUserAgent = "zenith/1.0"

func newHTTPHandler(cfg Config, logger zerolog.Logger, db *sql.DB) (http.Handler, error) {
	sources := newCatalogs(cfg, logger)
	if len(sources) == 0 {
		return nil, errors.New("no catalog sources configured")
	}

	aggregator := search.NewAggregator(logger, cfg.SourceTimeout, sources...)
	resolver := resolve.NewResolver(logger, resolve.Config{
		ArtistThreshold: cfg.ResolveArtistThreshold,
		TitleThreshold:  cfg.ResolveTitleThreshold,
	}, sources...)
	engine := lyrics.NewEngine(logger, lyrics.Config{
		ArtistThreshold:  cfg.LyricsArtistThreshold,
		MaxDurationDelta: cfg.LyricsMaxDurationDelta,
	}, lyrics.NewLRCLibClient(lyricsUserAgent))
	station := newStation(logger, sources)
	if station == nil {
		return nil, errors.New("no configured source can back recommendations")
	}

	dataStore := store.New(db)

	routes := httpapi.New(aggregator, resolver, engine, station, dataStore).Routes()

	handler := middleware.Recovery(logger)(routes)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	return handler, nil
}

// newCatalogs instantiates one client per configured source, in priority
// order. Sources with missing or unusable credentials are skipped so a
// partially configured deployment still serves the rest.
func newCatalogs(cfg Config, logger zerolog.Logger) []catalog.Catalog {
	var sources []catalog.Catalog
	for _, name := range cfg.SourcePriority {
		switch catalog.Source(name) {
		case catalog.SourceQobuz:
			if cfg.QobuzAppID == "" || cfg.QobuzUserAuthToken == "" {
				logger.Warn().Msg("qobuz credentials not provided, source disabled")
				continue
			}
			sources = append(sources, catalog.NewQobuzClient(cfg.QobuzAppID, cfg.QobuzUserAuthToken))
		case catalog.SourceTidal:
			if cfg.TidalClientID == "" || cfg.TidalClientSecret == "" {
				logger.Warn().Msg("tidal credentials not provided, source disabled")
				continue
			}
			sources = append(sources, catalog.NewTidalClient(cfg.TidalClientID, cfg.TidalClientSecret))
		case catalog.SourceDeezer:
			sources = append(sources, catalog.NewDeezerClient())
		case catalog.SourceAppleMusic:
			if cfg.AppleMusicKeyID == "" || cfg.AppleMusicTeamID == "" || cfg.AppleMusicPrivateKey == "" {
				logger.Warn().Msg("apple music credentials not provided, source disabled")
				continue
			}
			client, err := catalog.NewAppleMusicClient(cfg.AppleMusicKeyID, cfg.AppleMusicTeamID, cfg.AppleMusicPrivateKey)
			if err != nil {
				logger.Warn().Err(err).Msg("apple music key rejected, source disabled")
				continue
			}
			sources = append(sources, client)
		default:
			logger.Warn().Str("source", name).Msg("unknown source in SOURCE_PRIORITY, skipping")
		}
	}
	return sources
}

// newStation picks the highest-priority source that can fetch single tracks
// for the recommendation flow.
func newStation(logger zerolog.Logger, sources []catalog.Catalog) *radio.Station {
	for _, src := range sources {
		if s, ok := src.(radio.Source); ok {
			return radio.NewStation(logger, s)
		}
	}
	return nil
}
