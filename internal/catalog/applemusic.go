package catalog

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AppleMusicClient is a fallback catalog adapter. It signs its own developer
// token with an ES256 key; the tokens are long-lived but we re-sign every
// twelve hours anyway.
type AppleMusicClient struct {
	keyID      string
	teamID     string
	privateKey *ecdsa.PrivateKey
	httpClient *http.Client

	tokenMu   sync.Mutex
	token     string
	tokenTime time.Time
}

// NewAppleMusicClient creates an Apple Music adapter from a MusicKit key.
func NewAppleMusicClient(keyID, teamID, privateKeyPEM string) (*AppleMusicClient, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("apple music: no PEM block in private key")
	}

	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("apple music: parse private key: %w", err)
	}

	return &AppleMusicClient{
		keyID:      keyID,
		teamID:     teamID,
		privateKey: privateKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Source implements Catalog.
func (c *AppleMusicClient) Source() Source { return SourceAppleMusic }

type appleMusicSong struct {
	ID         string `json:"id"`
	Attributes struct {
		Name             string            `json:"name"`
		ArtistName       string            `json:"artistName"`
		AlbumName        string            `json:"albumName"`
		DurationInMillis int               `json:"durationInMillis"`
		GenreNames       []string          `json:"genreNames"`
		Artwork          appleMusicArtwork `json:"artwork"`
	} `json:"attributes"`
}

type appleMusicAlbum struct {
	ID         string `json:"id"`
	Attributes struct {
		Name       string            `json:"name"`
		ArtistName string            `json:"artistName"`
		Artwork    appleMusicArtwork `json:"artwork"`
	} `json:"attributes"`
}

type appleMusicArtwork struct {
	URL string `json:"url"`
}

func (c *AppleMusicClient) developerToken() (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Since(c.tokenTime) < 12*time.Hour {
		return c.token, nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": c.teamID,
		"iat": now.Unix(),
		"exp": now.Add(6 * 30 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = c.keyID

	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("apple music: sign developer token: %w", err)
	}

	c.token = signed
	c.tokenTime = now
	return signed, nil
}

func (c *AppleMusicClient) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	token, err := c.developerToken()
	if err != nil {
		return err
	}

	reqURL := "https://api.music.apple.com/v1/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("apple music: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apple music: %s: %v: %w", endpoint, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("apple music: %s returned %s: %w", endpoint, resp.Status, ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("apple music: decode %s: %v: %w", endpoint, err, ErrMalformed)
	}
	return nil
}

// SearchTracks implements Catalog.
func (c *AppleMusicClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	params := url.Values{}
	params.Set("term", query)
	params.Set("types", "songs")
	params.Set("limit", strconv.Itoa(limit))

	var result struct {
		Results struct {
			Songs *struct {
				Data []appleMusicSong `json:"data"`
			} `json:"songs"`
		} `json:"results"`
	}
	if err := c.get(ctx, "catalog/us/search", params, &result); err != nil {
		return nil, err
	}
	if result.Results.Songs == nil {
		return []Track{}, nil
	}

	tracks := make([]Track, 0, len(result.Results.Songs.Data))
	for _, as := range result.Results.Songs.Data {
		tracks = append(tracks, trackFromAppleMusic(as))
	}
	return tracks, nil
}

// SearchAlbums implements Catalog.
func (c *AppleMusicClient) SearchAlbums(ctx context.Context, query string, limit int) ([]Album, error) {
	params := url.Values{}
	params.Set("term", query)
	params.Set("types", "albums")
	params.Set("limit", strconv.Itoa(limit))

	var result struct {
		Results struct {
			Albums *struct {
				Data []appleMusicAlbum `json:"data"`
			} `json:"albums"`
		} `json:"results"`
	}
	if err := c.get(ctx, "catalog/us/search", params, &result); err != nil {
		return nil, err
	}
	if result.Results.Albums == nil {
		return []Album{}, nil
	}

	albums := make([]Album, 0, len(result.Results.Albums.Data))
	for _, aa := range result.Results.Albums.Data {
		albums = append(albums, Album{
			ID:         aa.ID,
			Title:      nameOrUnknown(aa.Attributes.Name),
			Artist:     nameOrUnknown(aa.Attributes.ArtistName),
			ArtworkURL: appleMusicArtworkURL(aa.Attributes.Artwork),
			Source:     SourceAppleMusic,
		})
	}
	return albums, nil
}

func trackFromAppleMusic(as appleMusicSong) Track {
	genre := ""
	if len(as.Attributes.GenreNames) > 0 {
		genre = as.Attributes.GenreNames[0]
	}
	return Track{
		ID:         as.ID,
		Title:      displayTitle(as.Attributes.Name, ""),
		Artist:     nameOrUnknown(as.Attributes.ArtistName),
		Album:      as.Attributes.AlbumName,
		ArtworkURL: appleMusicArtworkURL(as.Attributes.Artwork),
		Duration:   as.Attributes.DurationInMillis / 1000,
		BitDepth:   16,
		Genre:      genre,
		Source:     SourceAppleMusic,
	}
}

// appleMusicArtworkURL fills the {w}x{h} placeholders Apple leaves in artwork
// URLs.
func appleMusicArtworkURL(art appleMusicArtwork) string {
	if art.URL == "" {
		return PlaceholderArtwork
	}
	u := strings.ReplaceAll(art.URL, "{w}", "600")
	return strings.ReplaceAll(u, "{h}", "600")
}
