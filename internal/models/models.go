// package models defines the data model for the geet review client
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/geet/internal/shared"
)

// Rating bounds for a [Review]. The backend historically accepted both
// 0-based and 1-based scales; the client validates against 1..5.
const (
	MinRating = 1
	MaxRating = 5
)

// Model defines the base interface for all locally persisted models.
// Implementations include Session and CachedArtist.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for local data access operations.
// Implementations handle SQLite interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Artist represents a catalog artist as served by the backend.
type Artist struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Listeners int    `json:"listeners"`
}

// Validate checks the artist's required fields.
func (a Artist) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: artist name is required", shared.ErrValidation)
	}
	return nil
}

// Image represents a sized image resource in the last.fm shape
// (`#text` carries the URL).
type Image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

// AlbumRef is a summary entry from an artist's album listing. Albums are
// addressed by the (artist, name) pair; MBID is the opaque identifier the
// review endpoints key on.
type AlbumRef struct {
	Name   string  `json:"name"`
	MBID   string  `json:"mbid"`
	Artist string  `json:"artist"`
	Images []Image `json:"image"`
}

// CoverURL returns the largest image with a non-empty URL, or "".
func (r AlbumRef) CoverURL() string {
	for i := len(r.Images) - 1; i >= 0; i-- {
		if r.Images[i].URL != "" {
			return r.Images[i].URL
		}
	}
	return ""
}

// Track represents a single album track.
type Track struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Album represents full album details.
type Album struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Description string  `json:"description"`
	CoverArt    string  `json:"coverArt"`
	Tracks      []Track `json:"tracks"`
}

// AlbumExport bundles an album with its reviews for export to disk.
type AlbumExport struct {
	Album   Album    `json:"album"`
	Reviews []Review `json:"reviews"`
}

// Review represents a star-rated album review. A review is owned by exactly
// one user; edit/delete affordances are shown only when the session username
// matches Username (the backend enforces ownership).
type Review struct {
	ReviewID   string    `json:"_id"`
	AlbumID    string    `json:"album"`
	AlbumName  string    `json:"albumName"`
	ArtistName string    `json:"artistName"`
	Username   string    `json:"username"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
	Created    time.Time `json:"createdAt"`
	Updated    time.Time `json:"updatedAt"`
}

// Validate checks rating bounds and the album reference.
func (r Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d, got %d", shared.ErrValidation, MinRating, MaxRating, r.Rating)
	}
	if r.AlbumID == "" {
		return fmt.Errorf("%w: review requires an album identifier", shared.ErrValidation)
	}
	return nil
}

// OwnedBy reports whether the review belongs to the given username.
func (r Review) OwnedBy(username string) bool {
	return username != "" && r.Username == username
}

// User represents a backend account profile.
type User struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Bio            string   `json:"bio,omitempty"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	ReviewedAlbums []Review `json:"reviewedAlbums,omitempty"`
}

// Session is the bearer credential persisted between invocations. An absent
// session is a valid state meaning "anonymous".
type Session struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Saved    time.Time `json:"saved_at"`
}

// Anonymous reports whether the session carries no credential.
func (s *Session) Anonymous() bool {
	return s == nil || s.Token == ""
}

// Validate checks that a non-anonymous session is complete.
func (s *Session) Validate() error {
	if s == nil || s.Token == "" {
		return fmt.Errorf("%w: session has no token", shared.ErrValidation)
	}
	if s.Username == "" {
		return fmt.Errorf("%w: session has no username", shared.ErrValidation)
	}
	return nil
}
