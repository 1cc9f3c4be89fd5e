package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const qobuzUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:83.0) Gecko/20100101 Firefox/83.0"

// QobuzClient is the primary catalog adapter. It authenticates with a
// pre-provisioned app id and user auth token; obtaining those (the bundle
// scrape and login dance) is an external concern.
type QobuzClient struct {
	appID      string
	userToken  string
	baseURL    string
	httpClient *http.Client
}

// NewQobuzClient creates a Qobuz adapter. Empty credentials are allowed; the
// client then reports every call as unavailable, which the aggregation layer
// treats like any other source outage.
func NewQobuzClient(appID, userToken string) *QobuzClient {
	return &QobuzClient{
		appID:     appID,
		userToken: userToken,
		baseURL:   "https://www.qobuz.com/api.json/0.2",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Source implements Catalog.
func (c *QobuzClient) Source() Source { return SourceQobuz }

// Authenticated reports whether the client holds credentials. A client
// without credentials behaves as an unreachable source.
func (c *QobuzClient) Authenticated() bool {
	return c.appID != "" && c.userToken != ""
}

// Qobuz API response structures. Nested objects are pointers because the API
// omits them freely depending on the endpoint.
type qobuzTrack struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Version         string          `json:"version"`
	Duration        int             `json:"duration"`
	MaximumBitDepth int             `json:"maximum_bit_depth"`
	Performer       *qobuzPerformer `json:"performer"`
	Album           *qobuzAlbum     `json:"album"`
}

type qobuzPerformer struct {
	Name string `json:"name"`
}

type qobuzAlbum struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Artist *qobuzPerformer `json:"artist"`
	Image  *qobuzImage     `json:"image"`
	Genre  *qobuzGenre     `json:"genre"`
}

type qobuzImage struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type qobuzGenre struct {
	Name string `json:"name"`
}

func (c *QobuzClient) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	if !c.Authenticated() {
		return fmt.Errorf("qobuz: credentials not configured: %w", ErrUnavailable)
	}

	reqURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("qobuz: create request: %w", err)
	}
	req.Header.Set("User-Agent", qobuzUserAgent)
	req.Header.Set("X-App-Id", c.appID)
	req.Header.Set("X-User-Auth-Token", c.userToken)
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qobuz: %s: %v: %w", endpoint, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("qobuz: %s returned %s: %w", endpoint, resp.Status, ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("qobuz: decode %s: %v: %w", endpoint, err, ErrMalformed)
	}
	return nil
}

// SearchTracks implements Catalog.
func (c *QobuzClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	var result struct {
		Tracks struct {
			Items []qobuzTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := c.get(ctx, "track/search", params, &result); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(result.Tracks.Items))
	for _, qt := range result.Tracks.Items {
		tracks = append(tracks, trackFromQobuz(qt))
	}
	return tracks, nil
}

// SearchAlbums implements Catalog.
func (c *QobuzClient) SearchAlbums(ctx context.Context, query string, limit int) ([]Album, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	var result struct {
		Albums struct {
			Items []qobuzAlbum `json:"items"`
		} `json:"albums"`
	}
	if err := c.get(ctx, "album/search", params, &result); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(result.Albums.Items))
	for _, qa := range result.Albums.Items {
		albums = append(albums, albumFromQobuz(qa))
	}
	return albums, nil
}

// GetTrack implements TrackGetter. The recommendation flow uses it to read
// the current track's genre.
func (c *QobuzClient) GetTrack(ctx context.Context, id string) (Track, error) {
	params := url.Values{}
	params.Set("track_id", id)

	var qt qobuzTrack
	if err := c.get(ctx, "track/get", params, &qt); err != nil {
		return Track{}, err
	}
	return trackFromQobuz(qt), nil
}

func trackFromQobuz(qt qobuzTrack) Track {
	t := Track{
		ID:         strconv.FormatInt(qt.ID, 10),
		Title:      displayTitle(qt.Title, qt.Version),
		Artist:     UnknownName,
		ArtworkURL: PlaceholderArtwork,
		Duration:   qt.Duration,
		BitDepth:   bitDepthOrDefault(qt.MaximumBitDepth),
		Source:     SourceQobuz,
	}
	if qt.Performer != nil {
		t.Artist = nameOrUnknown(qt.Performer.Name)
	}
	if qt.Album != nil {
		t.Album = qt.Album.Title
		if qt.Album.Image != nil {
			t.ArtworkURL = artworkOrPlaceholder(qt.Album.Image.Large)
		}
		if qt.Album.Genre != nil {
			t.Genre = qt.Album.Genre.Name
		}
		if t.Artist == UnknownName && qt.Album.Artist != nil {
			t.Artist = nameOrUnknown(qt.Album.Artist.Name)
		}
	}
	return t
}

func albumFromQobuz(qa qobuzAlbum) Album {
	a := Album{
		ID:         qa.ID,
		Title:      nameOrUnknown(qa.Title),
		Artist:     UnknownName,
		ArtworkURL: PlaceholderArtwork,
		Source:     SourceQobuz,
	}
	if qa.Artist != nil {
		a.Artist = nameOrUnknown(qa.Artist.Name)
	}
	if qa.Image != nil {
		a.ArtworkURL = artworkOrPlaceholder(qa.Image.Large)
	}
	return a
}
