package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TidalClient is the secondary catalog adapter. It authenticates with the
// OAuth2 client-credentials flow and caches the bearer token until shortly
// before expiry.
type TidalClient struct {
	clientID     string
	clientSecret string
	authURL      string
	baseURL      string
	httpClient   *http.Client

	tokenMu        sync.Mutex
	cachedToken    string
	tokenExpiresAt time.Time
}

// NewTidalClient creates a Tidal adapter. As with Qobuz, empty credentials
// yield a client that reports every call as unavailable.
func NewTidalClient(clientID, clientSecret string) *TidalClient {
	return &TidalClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		authURL:      "https://auth.tidal.com/v1/oauth2/token",
		baseURL:      "https://api.tidal.com/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Source implements Catalog.
func (c *TidalClient) Source() Source { return SourceTidal }

type tidalTrack struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Version  string `json:"version"`
	Duration int    `json:"duration"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title string `json:"title"`
		Cover string `json:"cover"`
	} `json:"album"`
	MediaMetadata struct {
		Tags []string `json:"tags"`
	} `json:"mediaMetadata"`
}

type tidalAlbum struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Cover  string `json:"cover"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
}

// accessToken returns a valid bearer token, refreshing it when the cached one
// is within a minute of expiry.
func (c *TidalClient) accessToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.cachedToken != "" && time.Now().Add(time.Minute).Before(c.tokenExpiresAt) {
		return c.cachedToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("tidal: create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tidal: token request: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tidal: token request returned %s: %w", resp.Status, ErrUnavailable)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("tidal: decode token response: %v: %w", err, ErrMalformed)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("tidal: empty access token: %w", ErrUnavailable)
	}

	c.cachedToken = result.AccessToken
	expiresIn := time.Duration(result.ExpiresIn) * time.Second
	if expiresIn <= 0 {
		expiresIn = 55 * time.Minute
	}
	c.tokenExpiresAt = time.Now().Add(expiresIn)
	return c.cachedToken, nil
}

func (c *TidalClient) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	if c.clientID == "" || c.clientSecret == "" {
		return fmt.Errorf("tidal: credentials not configured: %w", ErrUnavailable)
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	params.Set("countryCode", "US")
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("tidal: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tidal: %s: %v: %w", endpoint, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tidal: %s returned %s: %w", endpoint, resp.Status, ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("tidal: decode %s: %v: %w", endpoint, err, ErrMalformed)
	}
	return nil
}

// SearchTracks implements Catalog.
func (c *TidalClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	var result struct {
		Items []tidalTrack `json:"items"`
	}
	if err := c.get(ctx, "search/tracks", params, &result); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(result.Items))
	for _, tt := range result.Items {
		tracks = append(tracks, trackFromTidal(tt))
	}
	return tracks, nil
}

// SearchAlbums implements Catalog.
func (c *TidalClient) SearchAlbums(ctx context.Context, query string, limit int) ([]Album, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	var result struct {
		Items []tidalAlbum `json:"items"`
	}
	if err := c.get(ctx, "search/albums", params, &result); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(result.Items))
	for _, ta := range result.Items {
		albums = append(albums, Album{
			ID:         strconv.FormatInt(ta.ID, 10),
			Title:      nameOrUnknown(ta.Title),
			Artist:     nameOrUnknown(ta.Artist.Name),
			ArtworkURL: tidalCoverURL(ta.Cover),
			Source:     SourceTidal,
		})
	}
	return albums, nil
}

func trackFromTidal(tt tidalTrack) Track {
	bitDepth := 16
	for _, tag := range tt.MediaMetadata.Tags {
		if tag == "HIRES_LOSSLESS" {
			bitDepth = 24
			break
		}
	}
	return Track{
		ID:         strconv.FormatInt(tt.ID, 10),
		Title:      displayTitle(tt.Title, tt.Version),
		Artist:     nameOrUnknown(tt.Artist.Name),
		Album:      tt.Album.Title,
		ArtworkURL: tidalCoverURL(tt.Album.Cover),
		Duration:   tt.Duration,
		BitDepth:   bitDepth,
		Source:     SourceTidal,
	}
}

// tidalCoverURL expands the cover uuid the API returns into an image URL.
func tidalCoverURL(coverID string) string {
	if coverID == "" {
		return PlaceholderArtwork
	}
	return fmt.Sprintf("https://resources.tidal.com/images/%s/640x640.jpg",
		strings.ReplaceAll(coverID, "-", "/"))
}
