// package services defines interface Service for interacting with HTTP APIs
//
// geet backend (catalog, reviews, accounts, donations), last.fm
package services

import (
	"context"

	"github.com/desertthunder/geet/internal/models"
)

// Service is the review backend surface consumed by the CLI and TUI.
type Service interface {
	// Artists retrieves the full artist catalog.
	Artists(ctx context.Context) ([]models.Artist, error)

	// Artist retrieves a single artist by name.
	Artist(ctx context.Context, name string) (*models.Artist, error)

	// AddArtist submits a new artist to the catalog. Requires a session.
	AddArtist(ctx context.Context, artist models.Artist) (*models.Artist, error)

	// Albums retrieves the discography for the named artist.
	Albums(ctx context.Context, artistName string) ([]models.AlbumRef, error)

	// AlbumDetails retrieves a single album. The name pair addresses the
	// album; id is used instead when the backend is keyed by mbid.
	AlbumDetails(ctx context.Context, artistName, albumName, id string) (*models.Album, error)

	// Reviews retrieves all reviews for an album.
	Reviews(ctx context.Context, albumID string) ([]models.Review, error)

	// CreateReview posts a review and returns the server's record.
	CreateReview(ctx context.Context, review models.Review) (*models.Review, error)

	// UpdateReview replaces the rating and text of an existing review.
	UpdateReview(ctx context.Context, id string, rating int, text string) (*models.Review, error)

	// DeleteReview removes a review by id.
	DeleteReview(ctx context.Context, id string) error

	// MyReviews retrieves the authenticated user's reviews.
	MyReviews(ctx context.Context) ([]models.Review, error)

	// UserReviews retrieves another user's public reviews.
	UserReviews(ctx context.Context, username string) ([]models.Review, error)

	// Profile retrieves the authenticated user's profile.
	Profile(ctx context.Context) (*models.User, error)

	// UpdateBio replaces the authenticated user's bio.
	UpdateBio(ctx context.Context, bio string) (*models.User, error)

	// User retrieves a public profile by username.
	User(ctx context.Context, username string) (*models.User, error)

	// Name returns the name of the service (e.g., "geet", "last.fm")
	Name() string
}

// AccountService covers registration, login, and the OTP flows.
type AccountService interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (*models.Session, error)
	VerifyOTP(ctx context.Context, email, otp string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, password string) error
}

// DonationService covers the Khalti payment flow.
type DonationService interface {
	// InitiateDonation starts a payment and returns the URL to open.
	InitiateDonation(ctx context.Context, amount int, orderID string) (string, error)

	// CompleteDonation verifies a payment with the parameters the gateway
	// passed to the local callback.
	CompleteDonation(ctx context.Context, callback DonationCallback) error
}

// DonationCallback carries the query parameters Khalti appends to the
// return URL after payment.
type DonationCallback struct {
	Pidx          string `json:"pidx"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	OrderID       string `json:"purchase_order_id"`
}
