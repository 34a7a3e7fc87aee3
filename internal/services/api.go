// API service for making raw HTTP requests to the review backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/geet/internal/views"
)

// APIService provides methods for making raw HTTP requests to the review
// backend, for poking at endpoints the typed client does not cover.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	sessions   views.SessionSource
}

// NewAPIService creates a new raw API service instance. Sessions may be nil;
// when present the stored bearer token is attached to every request.
func NewAPIService(baseURL string, sessions views.SessionSource, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultGeetBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
		sessions:   sessions,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

func (a *APIService) do(ctx context.Context, method, path string, body io.Reader) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.sessions != nil {
		if session := a.sessions.Current(); !session.Anonymous() {
			req.Header.Set("Authorization", "Bearer "+session.Token)
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, bytes.NewReader(data))
}
