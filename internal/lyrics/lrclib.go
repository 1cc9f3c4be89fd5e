package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUnavailable marks a lyrics provider that could not be reached or
// answered with garbage.
var ErrUnavailable = errors.New("lyrics provider unavailable")

// Candidate is one entry from a provider's search response.
type Candidate struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Provider searches a lyrics database for candidates matching a track. The
// engine does the filtering; a provider just returns whatever it has.
type Provider interface {
	Search(ctx context.Context, artist, title, album string) ([]Candidate, error)
}

// LRCLibClient queries the public LRCLIB search API.
type LRCLibClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewLRCLibClient(userAgent string) *LRCLibClient {
	return &LRCLibClient{
		baseURL:   "https://lrclib.net",
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Search implements Provider.
func (c *LRCLibClient) Search(ctx context.Context, artist, title, album string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("track_name", title)
	params.Set("artist_name", artist)
	if album != "" {
		params.Set("album_name", album)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("lrclib: create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lrclib: search: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lrclib: search returned %s: %w", resp.Status, ErrUnavailable)
	}

	var candidates []Candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("lrclib: decode search response: %v: %w", err, ErrUnavailable)
	}
	return candidates, nil
}
