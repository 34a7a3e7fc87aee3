// last.fm audioscrobbler API client
//
// Used for add-artist suggestions; the backend proxies everything else.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
)

const defaultLastFMBaseURL = "https://ws.audioscrobbler.com/2.0/"

// suggestionLimit caps artist.search results for the add-artist prompt.
const suggestionLimit = 5

// LastFMService queries the audioscrobbler API directly.
type LastFMService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewLastFMService creates a last.fm client from config.
func NewLastFMService(cfg shared.LastFMConfig, client *http.Client) *LastFMService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultLastFMBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &LastFMService{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: client,
	}
}

// Name returns the service name.
func (l *LastFMService) Name() string {
	return "last.fm"
}

// lastFMArtist is the audioscrobbler artist.search result shape.
type lastFMArtist struct {
	Name      string         `json:"name"`
	Listeners string         `json:"listeners"`
	Images    []models.Image `json:"image"`
}

// SearchArtists returns up to five catalog suggestions matching the query.
func (l *LastFMService) SearchArtists(ctx context.Context, query string) ([]models.Artist, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("%w: lastfm.api_key", shared.ErrMissingConfig)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	params := url.Values{}
	params.Set("method", "artist.search")
	params.Set("artist", query)
	params.Set("api_key", l.apiKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(suggestionLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: last.fm status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var response struct {
		Results struct {
			ArtistMatches struct {
				Artist []lastFMArtist `json:"artist"`
			} `json:"artistmatches"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	matches := response.Results.ArtistMatches.Artist
	artists := make([]models.Artist, 0, len(matches))
	for _, m := range matches {
		listeners, _ := strconv.Atoi(m.Listeners)
		artist := models.Artist{Name: m.Name, Listeners: listeners}
		for _, img := range m.Images {
			if img.URL != "" {
				artist.Image = img.URL
			}
		}
		artists = append(artists, artist)
	}
	return artists, nil
}
