package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
)

// ArtistCacheRepository caches the last fetched artist catalog so the list
// view can render something when the backend is unreachable.
type ArtistCacheRepository struct {
	db *sql.DB
}

// NewArtistCacheRepository creates a new [ArtistCacheRepository] with the given database connection
func NewArtistCacheRepository(db *sql.DB) *ArtistCacheRepository {
	return &ArtistCacheRepository{db: db}
}

// Replace swaps the cached catalog for the given one.
func (r *ArtistCacheRepository) Replace(artists []models.Artist) error {
	if _, err := r.db.Exec("DELETE FROM artist_cache"); err != nil {
		return fmt.Errorf("failed to clear artist cache: %w", err)
	}

	query := `
		INSERT INTO artist_cache (id, sequence, name, bio, image, listeners, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	for _, artist := range artists {
		sequence, err := NextSequence(r.db, "artist_cache")
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}

		_, err = r.db.Exec(query, shared.GenerateID(), sequence, artist.Name, artist.Bio, artist.Image, artist.Listeners, now, now)
		if err != nil {
			return fmt.Errorf("failed to cache artist %s: %w", artist.Name, err)
		}
	}

	return nil
}

// List returns the cached catalog in its original order.
func (r *ArtistCacheRepository) List() ([]models.Artist, error) {
	query := `
		SELECT name, bio, image, listeners
		FROM artist_cache
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query artist cache: %w", err)
	}
	defer rows.Close()

	var artists []models.Artist
	for rows.Next() {
		var artist models.Artist
		if err := rows.Scan(&artist.Name, &artist.Bio, &artist.Image, &artist.Listeners); err != nil {
			return nil, fmt.Errorf("failed to scan cached artist: %w", err)
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

// SavedAt returns when the cache was last replaced, or zero when empty.
// Selects the column directly; aggregates lose the declared TIMESTAMP type
// and come back as strings.
func (r *ArtistCacheRepository) SavedAt() (time.Time, error) {
	var saved time.Time
	err := r.db.QueryRow("SELECT updated_at FROM artist_cache ORDER BY updated_at DESC LIMIT 1").Scan(&saved)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query artist cache age: %w", err)
	}
	return saved, nil
}
