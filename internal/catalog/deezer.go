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

// DeezerClient is a fallback catalog adapter. The Deezer search API needs no
// credentials, which also makes it the only source that can search artists
// and playlists without an account.
type DeezerClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewDeezerClient() *DeezerClient {
	return &DeezerClient{
		baseURL: "https://api.deezer.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Source implements Catalog.
func (c *DeezerClient) Source() Source { return SourceDeezer }

type deezerTrack struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title    string `json:"title"`
		CoverBig string `json:"cover_big"`
	} `json:"album"`
}

type deezerAlbum struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	CoverBig string `json:"cover_big"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type deezerArtist struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PictureBig string `json:"picture_big"`
}

type deezerPlaylist struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	NbTracks   int    `json:"nb_tracks"`
	PictureBig string `json:"picture_big"`
	User       struct {
		Name string `json:"name"`
	} `json:"user"`
}

func (c *DeezerClient) get(ctx context.Context, endpoint, query string, limit int, result any) error {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("deezer: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deezer: %s: %v: %w", endpoint, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deezer: %s returned %s: %w", endpoint, resp.Status, ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("deezer: decode %s: %v: %w", endpoint, err, ErrMalformed)
	}
	return nil
}

// SearchTracks implements Catalog.
func (c *DeezerClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	var result struct {
		Data []deezerTrack `json:"data"`
	}
	if err := c.get(ctx, "search", query, limit, &result); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(result.Data))
	for _, dt := range result.Data {
		tracks = append(tracks, Track{
			ID:         strconv.FormatInt(dt.ID, 10),
			Title:      displayTitle(dt.Title, ""),
			Artist:     nameOrUnknown(dt.Artist.Name),
			Album:      dt.Album.Title,
			ArtworkURL: artworkOrPlaceholder(dt.Album.CoverBig),
			Duration:   dt.Duration,
			BitDepth:   16,
			Source:     SourceDeezer,
		})
	}
	return tracks, nil
}

// SearchAlbums implements Catalog.
func (c *DeezerClient) SearchAlbums(ctx context.Context, query string, limit int) ([]Album, error) {
	var result struct {
		Data []deezerAlbum `json:"data"`
	}
	if err := c.get(ctx, "search/album", query, limit, &result); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(result.Data))
	for _, da := range result.Data {
		albums = append(albums, Album{
			ID:         strconv.FormatInt(da.ID, 10),
			Title:      nameOrUnknown(da.Title),
			Artist:     nameOrUnknown(da.Artist.Name),
			ArtworkURL: artworkOrPlaceholder(da.CoverBig),
			Source:     SourceDeezer,
		})
	}
	return albums, nil
}

// GetTrack implements TrackGetter. Deezer reports lookup failures inside a
// 200 body, so a zero id after decoding means the track does not exist.
func (c *DeezerClient) GetTrack(ctx context.Context, id string) (Track, error) {
	reqURL := c.baseURL + "/track/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Track{}, fmt.Errorf("deezer: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Track{}, fmt.Errorf("deezer: get track: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Track{}, fmt.Errorf("deezer: get track returned %s: %w", resp.Status, ErrUnavailable)
	}

	var dt deezerTrack
	if err := json.NewDecoder(resp.Body).Decode(&dt); err != nil {
		return Track{}, fmt.Errorf("deezer: decode track: %v: %w", err, ErrMalformed)
	}
	if dt.ID == 0 {
		return Track{}, fmt.Errorf("deezer: track %s not found: %w", id, ErrUnavailable)
	}

	return Track{
		ID:         strconv.FormatInt(dt.ID, 10),
		Title:      displayTitle(dt.Title, ""),
		Artist:     nameOrUnknown(dt.Artist.Name),
		Album:      dt.Album.Title,
		ArtworkURL: artworkOrPlaceholder(dt.Album.CoverBig),
		Duration:   dt.Duration,
		BitDepth:   16,
		Source:     SourceDeezer,
	}, nil
}

// SearchArtists implements ArtistSearcher.
func (c *DeezerClient) SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error) {
	var result struct {
		Data []deezerArtist `json:"data"`
	}
	if err := c.get(ctx, "search/artist", query, limit, &result); err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(result.Data))
	for _, da := range result.Data {
		artists = append(artists, Artist{
			ID:         strconv.FormatInt(da.ID, 10),
			Name:       nameOrUnknown(da.Name),
			PictureURL: da.PictureBig,
			Source:     SourceDeezer,
		})
	}
	return artists, nil
}

// SearchPlaylists implements PlaylistSearcher.
func (c *DeezerClient) SearchPlaylists(ctx context.Context, query string, limit int) ([]Playlist, error) {
	var result struct {
		Data []deezerPlaylist `json:"data"`
	}
	if err := c.get(ctx, "search/playlist", query, limit, &result); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(result.Data))
	for _, dp := range result.Data {
		playlists = append(playlists, Playlist{
			ID:          strconv.FormatInt(dp.ID, 10),
			Title:       nameOrUnknown(dp.Title),
			Description: dp.User.Name,
			ArtworkURL:  dp.PictureBig,
			TrackCount:  dp.NbTracks,
			Source:      SourceDeezer,
		})
	}
	return playlists, nil
}
