package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestTidalClient(t *testing.T, tokenCalls *int32, api http.HandlerFunc) *TidalClient {
	t.Helper()

	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("basic auth = %q/%q, want client credentials", user, pass)
		}
		w.Write([]byte(`{"access_token": "tok-1", "expires_in": 3600}`))
	}))
	t.Cleanup(authSrv.Close)

	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	c := NewTidalClient("client-id", "client-secret")
	c.authURL = authSrv.URL
	c.baseURL = apiSrv.URL
	return c
}

func TestTidalSearchTracks(t *testing.T) {
	var tokenCalls int32
	client := newTestTidalClient(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tracks" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if got := r.URL.Query().Get("countryCode"); got != "US" {
			t.Errorf("countryCode = %q, want US", got)
		}
		w.Write([]byte(`{
			"items": [
				{
					"id": 555,
					"title": "One More Time",
					"duration": 320,
					"artist": {"name": "Daft Punk"},
					"album": {"title": "Discovery", "cover": "aaaa-bbbb-cccc"},
					"mediaMetadata": {"tags": ["HIRES_LOSSLESS"]}
				},
				{
					"id": 556,
					"title": "Aerodynamic",
					"duration": 212,
					"artist": {"name": "Daft Punk"},
					"album": {"title": "Discovery", "cover": ""},
					"mediaMetadata": {"tags": ["LOSSLESS"]}
				}
			]
		}`))
	})

	tracks, err := client.SearchTracks(context.Background(), "daft punk", 30)
	if err != nil {
		t.Fatalf("SearchTracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}

	if tracks[0].BitDepth != 24 {
		t.Errorf("hires track BitDepth = %d, want 24", tracks[0].BitDepth)
	}
	if want := "https://resources.tidal.com/images/aaaa/bbbb/cccc/640x640.jpg"; tracks[0].ArtworkURL != want {
		t.Errorf("ArtworkURL = %q, want %q", tracks[0].ArtworkURL, want)
	}
	if tracks[0].Source != SourceTidal {
		t.Errorf("Source = %q, want %q", tracks[0].Source, SourceTidal)
	}
	if tracks[1].BitDepth != 16 {
		t.Errorf("lossless track BitDepth = %d, want 16", tracks[1].BitDepth)
	}
	if tracks[1].ArtworkURL != PlaceholderArtwork {
		t.Errorf("missing cover: ArtworkURL = %q, want placeholder", tracks[1].ArtworkURL)
	}

	// Second call reuses the cached token.
	if _, err := client.SearchTracks(context.Background(), "daft punk", 30); err != nil {
		t.Fatalf("second SearchTracks: %v", err)
	}
	if got := atomic.LoadInt32(&tokenCalls); got != 1 {
		t.Errorf("token endpoint hit %d times, want 1", got)
	}
}

func TestTidalMissingCredentials(t *testing.T) {
	client := NewTidalClient("", "")
	_, err := client.SearchTracks(context.Background(), "daft punk", 30)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
}

func TestTidalAuthFailure(t *testing.T) {
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer authSrv.Close()

	client := NewTidalClient("client-id", "client-secret")
	client.authURL = authSrv.URL

	_, err := client.SearchTracks(context.Background(), "daft punk", 30)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("got %v, want ErrUnavailable", err)
	}
}
