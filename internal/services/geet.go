// geet backend implementation of [Service]
//
// The backend is the Express API serving the artist catalog, album details
// proxied from last.fm, star-rated reviews, accounts, and Khalti donations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
	"github.com/desertthunder/geet/internal/views"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultGeetBaseURL = "http://localhost:3000"

// GeetService implements [Service], [AccountService], and [DonationService]
// against the review backend. Requests are rate limited and, when a session
// is present, carry its bearer token.
type GeetService struct {
	baseURL    string
	albumKey   string
	httpClient *http.Client
	sessions   views.SessionSource
	limiter    *rate.Limiter
}

// NewGeetService creates a backend client. Sessions may be nil for a client
// that only reads public resources.
func NewGeetService(cfg shared.APIConfig, sessions views.SessionSource, client *http.Client) *GeetService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeetBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	limit := rate.Limit(cfg.RateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}

	return &GeetService{
		baseURL:    baseURL,
		albumKey:   cfg.AlbumKey,
		httpClient: client,
		sessions:   sessions,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Name returns the service name.
func (g *GeetService) Name() string {
	return "geet"
}

// tokenSource wraps the current session token for request authorization.
// Returns nil when no session is stored.
func (g *GeetService) tokenSource() oauth2.TokenSource {
	if g.sessions == nil {
		return nil
	}
	session := g.sessions.Current()
	if session.Anonymous() {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: session.Token, TokenType: "Bearer"})
}

// apiError is the backend's failure envelope.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e apiError) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// doRequest performs a rate-limited HTTP request to the backend, attaching
// the session bearer token when one exists, and decodes the response into
// result. Non-2xx statuses map onto the shared error taxonomy, carrying the
// server's message when the body has one.
func (g *GeetService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCanceled, err)
	}

	apiURL := g.baseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if ts := g.tokenSource(); ts != nil {
		token, err := ts.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
		}
		token.SetAuthHeader(req)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var serverErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&serverErr)
		return statusError(resp.StatusCode, serverErr.text())
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// statusError maps an HTTP status onto the shared error taxonomy.
func statusError(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrSessionExpired, message)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, message)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, message)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", shared.ErrServiceUnavailable, status, message)
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, status, message)
	}
}

// Artists retrieves the full artist catalog.
func (g *GeetService) Artists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if err := g.doRequest(ctx, http.MethodGet, "/api/artists", nil, &artists); err != nil {
		return nil, err
	}
	return artists, nil
}

// Artist retrieves a single artist by name.
func (g *GeetService) Artist(ctx context.Context, name string) (*models.Artist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	var artist models.Artist
	endpoint := "/api/artists/" + url.PathEscape(name)
	if err := g.doRequest(ctx, http.MethodGet, endpoint, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// AddArtist submits a new artist to the catalog.
func (g *GeetService) AddArtist(ctx context.Context, artist models.Artist) (*models.Artist, error) {
	if err := artist.Validate(); err != nil {
		return nil, err
	}

	var created models.Artist
	if err := g.doRequest(ctx, http.MethodPost, "/api/artists", artist, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Albums retrieves the discography for the named artist.
func (g *GeetService) Albums(ctx context.Context, artistName string) ([]models.AlbumRef, error) {
	if artistName == "" {
		return nil, fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	var response struct {
		Albums []models.AlbumRef `json:"albums"`
	}

	endpoint := "/api/albums/fetch/" + url.PathEscape(artistName)
	if err := g.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Albums, nil
}

// AlbumDetails retrieves a single album. Under the name-pair scheme the
// artist and album names address the record; under the mbid scheme the
// opaque id does.
func (g *GeetService) AlbumDetails(ctx context.Context, artistName, albumName, id string) (*models.Album, error) {
	var endpoint string
	switch g.albumKey {
	case shared.AlbumKeyMBID:
		if id == "" {
			return nil, fmt.Errorf("%w: album id", shared.ErrMissingArgument)
		}
		endpoint = "/api/albums/" + url.PathEscape(id)
	default:
		if artistName == "" || albumName == "" {
			return nil, fmt.Errorf("%w: artist and album names", shared.ErrMissingArgument)
		}
		endpoint = fmt.Sprintf("/api/albums/details/%s/%s",
			url.PathEscape(artistName), url.PathEscape(albumName))
	}

	var album models.Album
	if err := g.doRequest(ctx, http.MethodGet, endpoint, nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Reviews retrieves all reviews for an album.
func (g *GeetService) Reviews(ctx context.Context, albumID string) ([]models.Review, error) {
	if albumID == "" {
		return nil, fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	var response struct {
		Reviews []models.Review `json:"reviews"`
	}

	endpoint := "/api/reviews/album/" + url.PathEscape(albumID)
	if err := g.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Reviews, nil
}

// CreateReview posts a review and returns the server's record.
func (g *GeetService) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	if err := review.Validate(); err != nil {
		return nil, err
	}

	var created models.Review
	if err := g.doRequest(ctx, http.MethodPost, "/api/reviews", review, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateReview replaces the rating and text of an existing review.
func (g *GeetService) UpdateReview(ctx context.Context, id string, rating int, text string) (*models.Review, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: review id", shared.ErrMissingArgument)
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d",
			shared.ErrValidation, models.MinRating, models.MaxRating)
	}

	body := map[string]any{"rating": rating, "reviewText": text}

	var updated models.Review
	endpoint := "/api/reviews/" + url.PathEscape(id)
	if err := g.doRequest(ctx, http.MethodPut, endpoint, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteReview removes a review by id.
func (g *GeetService) DeleteReview(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: review id", shared.ErrMissingArgument)
	}

	endpoint := "/api/reviews/" + url.PathEscape(id)
	return g.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// MyReviews retrieves the authenticated user's reviews.
func (g *GeetService) MyReviews(ctx context.Context) ([]models.Review, error) {
	var response struct {
		Reviews []models.Review `json:"reviews"`
	}

	if err := g.doRequest(ctx, http.MethodGet, "/api/reviews/user", nil, &response); err != nil {
		return nil, err
	}
	return response.Reviews, nil
}

// UserReviews retrieves another user's public reviews.
func (g *GeetService) UserReviews(ctx context.Context, username string) ([]models.Review, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	var response struct {
		Reviews []models.Review `json:"reviews"`
	}

	endpoint := "/api/reviews/user/" + url.PathEscape(username)
	if err := g.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return response.Reviews, nil
}

// userEnvelope is the backend's wrapper for user payloads.
type userEnvelope struct {
	Data models.User `json:"data"`
}

// Profile retrieves the authenticated user's profile.
func (g *GeetService) Profile(ctx context.Context) (*models.User, error) {
	var response userEnvelope
	if err := g.doRequest(ctx, http.MethodGet, "/api/user/profile", nil, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// UpdateBio replaces the authenticated user's bio.
func (g *GeetService) UpdateBio(ctx context.Context, bio string) (*models.User, error) {
	body := map[string]string{"bio": bio}

	var response userEnvelope
	if err := g.doRequest(ctx, http.MethodPut, "/api/user/update-bio", body, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// User retrieves a public profile by username.
func (g *GeetService) User(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	var response userEnvelope
	endpoint := "/api/user/" + url.PathEscape(username)
	if err := g.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// Register creates an account. The backend emails an OTP that must be
// confirmed with [GeetService.VerifyOTP] before login succeeds.
func (g *GeetService) Register(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("%w: username, email, and password", shared.ErrMissingArgument)
	}

	body := map[string]string{"username": username, "email": email, "password": password}
	return g.doRequest(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

// Login exchanges credentials for a session.
func (g *GeetService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password", shared.ErrMissingArgument)
	}

	body := map[string]string{"email": email, "password": password}

	var response struct {
		Token string      `json:"token"`
		Data  models.User `json:"data"`
	}
	if err := g.doRequest(ctx, http.MethodPost, "/api/auth/login", body, &response); err != nil {
		return nil, err
	}
	if response.Token == "" {
		return nil, fmt.Errorf("%w: server returned no token", shared.ErrAuthFailed)
	}

	return &models.Session{
		Token:    response.Token,
		Username: response.Data.Username,
		Email:    response.Data.Email,
	}, nil
}

// VerifyOTP confirms a registration code.
func (g *GeetService) VerifyOTP(ctx context.Context, email, otp string) error {
	body := map[string]string{"email": email, "otp": otp}
	return g.doRequest(ctx, http.MethodPost, "/api/auth/verify-otp", body, nil)
}

// ForgotPassword requests a password reset code for the email.
func (g *GeetService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}

	body := map[string]string{"email": email}
	return g.doRequest(ctx, http.MethodPost, "/api/auth/forgot-password", body, nil)
}

// ResetOTP confirms a password reset code.
func (g *GeetService) ResetOTP(ctx context.Context, email, otp string) error {
	body := map[string]string{"email": email, "otp": otp}
	return g.doRequest(ctx, http.MethodPost, "/api/auth/reset-otp", body, nil)
}

// ResetPassword sets a new password after the reset code was confirmed.
func (g *GeetService) ResetPassword(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return g.doRequest(ctx, http.MethodPost, "/api/auth/reset-password", body, nil)
}

// InitiateDonation starts a Khalti payment and returns the payment URL.
func (g *GeetService) InitiateDonation(ctx context.Context, amount int, orderID string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	if orderID == "" {
		return "", fmt.Errorf("%w: order id", shared.ErrMissingArgument)
	}

	body := map[string]any{"amount": amount, "purchase_order_id": orderID}

	var response struct {
		Success    bool   `json:"success"`
		PaymentURL string `json:"paymentUrl"`
	}
	if err := g.doRequest(ctx, http.MethodPost, "/api/khalti/initiate-donation", body, &response); err != nil {
		return "", err
	}
	if !response.Success || response.PaymentURL == "" {
		return "", fmt.Errorf("%w: gateway returned no payment URL", shared.ErrPaymentFailed)
	}
	return response.PaymentURL, nil
}

// CompleteDonation verifies a payment with the gateway's callback parameters.
func (g *GeetService) CompleteDonation(ctx context.Context, callback DonationCallback) error {
	if callback.Pidx == "" {
		return fmt.Errorf("%w: pidx", shared.ErrMissingArgument)
	}

	query := url.Values{}
	query.Set("pidx", callback.Pidx)
	query.Set("transaction_id", callback.TransactionID)
	query.Set("amount", callback.Amount)
	query.Set("purchase_order_id", callback.OrderID)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	endpoint := "/api/khalti/complete-donation?" + query.Encode()
	if err := g.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return err
	}
	if !response.Success {
		return fmt.Errorf("%w: %s", shared.ErrPaymentFailed, response.Message)
	}
	return nil
}
