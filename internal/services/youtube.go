// YouTube Music [Catalog] implementation
//
// Communicates with the FastAPI proxy server running on port 8080.
// The proxy wraps the ytmusicapi Python library for YouTube Music lookups.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/soundvault/soundvault/internal/models"
	"github.com/soundvault/soundvault/internal/shared"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeArtist represents an artist credit in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type youtubeAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeSong represents a song in YouTube Music search and artist responses.
type YouTubeSong struct {
	VideoID string          `json:"videoId"`
	Title   string          `json:"title"`
	Artists []YouTubeArtist `json:"artists"`
	Album   *youtubeAlbum   `json:"album"`
}

// YouTubeCatalog implements the Catalog interface for YouTube Music via proxy.
type YouTubeCatalog struct {
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeCatalog creates a new YouTube Music catalog client.
//
// The HTTP client defaults to [http.DefaultClient]; pass a custom one to
// substitute transports in tests.
func NewYouTubeCatalog(baseURL string, httpClient *http.Client) *YouTubeCatalog {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &YouTubeCatalog{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (y *YouTubeCatalog) Name() string {
	return "YouTube Music"
}

func (y *YouTubeCatalog) doRequest(ctx context.Context, endpoint string, result any) error {
	apiURL := y.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube music API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube music API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchTrack searches for a song and returns the best match as a TrackRecord.
//
// Calls GET /api/search?q={query}&filter=songs on the proxy.
func (y *YouTubeCatalog) SearchTrack(ctx context.Context, query string) (*models.TrackRecord, error) {
	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs", url.QueryEscape(query))

	var results []YouTubeSong
	if err := y.doRequest(ctx, endpoint, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no songs match %q", shared.ErrTrackNotFound, query)
	}

	track, err := mapSong(results[0])
	if err != nil {
		return nil, err
	}
	return track, nil
}

// ArtistCatalog searches for an artist and enumerates the top match's songs.
//
// Calls GET /api/search?q={name}&filter=artists, then
// GET /api/artists/{browseId} on the proxy. A top match without a browseId is
// treated as artist-not-found, matching the provider contract where absent
// fields mean "no enumerable catalog".
func (y *YouTubeCatalog) ArtistCatalog(ctx context.Context, artistName string) ([]models.TrackRecord, error) {
	endpoint := fmt.Sprintf("/api/search?q=%s&filter=artists", url.QueryEscape(artistName))

	var artists []struct {
		Artist   string `json:"artist"`
		BrowseID string `json:"browseId"`
	}
	if err := y.doRequest(ctx, endpoint, &artists); err != nil {
		return nil, err
	}
	if len(artists) == 0 || artists[0].BrowseID == "" {
		return []models.TrackRecord{}, fmt.Errorf("%w: %q", shared.ErrArtistNotFound, artistName)
	}

	var artistData struct {
		Songs *struct {
			Results []YouTubeSong `json:"results"`
		} `json:"songs"`
	}
	artistEndpoint := fmt.Sprintf("/api/artists/%s", url.PathEscape(artists[0].BrowseID))
	if err := y.doRequest(ctx, artistEndpoint, &artistData); err != nil {
		return nil, err
	}

	if artistData.Songs == nil || len(artistData.Songs.Results) == 0 {
		return []models.TrackRecord{}, fmt.Errorf("%w: %q", shared.ErrNoCatalogEntries, artistName)
	}

	tracks := make([]models.TrackRecord, 0, len(artistData.Songs.Results))
	for _, song := range artistData.Songs.Results {
		track, err := mapSong(song)
		if err != nil {
			// Stubs without a videoId cannot be fetched; skip them at the
			// boundary instead of letting them fail mid-pipeline.
			continue
		}
		tracks = append(tracks, *track)
	}

	if len(tracks) == 0 {
		return tracks, fmt.Errorf("%w: %q", shared.ErrNoCatalogEntries, artistName)
	}
	return tracks, nil
}

// mapSong converts a provider-native song into a TrackRecord, failing fast
// when a field the pipeline requires is absent.
func mapSong(song YouTubeSong) (*models.TrackRecord, error) {
	track := models.TrackRecord{
		Title:   song.Title,
		VideoID: song.VideoID,
		Album:   "unknown",
	}

	for _, artist := range song.Artists {
		if artist.Name != "" {
			track.Artists = append(track.Artists, artist.Name)
		}
	}
	if len(track.Artists) > 0 {
		track.PrimaryArtist = track.Artists[0]
	}

	if song.Album != nil && song.Album.Name != "" {
		track.Album = song.Album.Name
	}

	if err := track.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return &track, nil
}
