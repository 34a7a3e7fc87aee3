package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestSessionRepository(t *testing.T) {
	t.Run("Current Starts Anonymous", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if !repo.Current().Anonymous() {
			t.Error("expected an anonymous session before any save")
		}
	})

	t.Run("Save", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		session := &models.Session{Token: "tok-1", Username: "thom", Email: "thom@example.com"}

		if err := repo.Save(session); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		current := repo.Current()
		if current.Anonymous() {
			t.Fatal("expected a stored session")
		}
		if current.Token != "tok-1" || current.Username != "thom" {
			t.Errorf("unexpected session %+v", current)
		}
	})

	t.Run("Save Replaces The Previous Session", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Save(&models.Session{Token: "tok-1", Username: "thom"}); err != nil {
			t.Fatalf("failed to save first session: %v", err)
		}
		if err := repo.Save(&models.Session{Token: "tok-2", Username: "beth"}); err != nil {
			t.Fatalf("failed to save second session: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
			t.Fatalf("failed to count sessions: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single session row, got %d", count)
		}
		if repo.Current().Username != "beth" {
			t.Errorf("expected the latest session, got %q", repo.Current().Username)
		}
	})

	t.Run("Save Rejects An Empty Token", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Save(&models.Session{Username: "thom"}); err == nil {
			t.Error("expected validation to fail")
		}
	})

	t.Run("Load", func(t *testing.T) {
		t.Run("Restores A Saved Session", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if err := NewSessionRepository(db).Save(&models.Session{Token: "tok-1", Username: "thom"}); err != nil {
				t.Fatalf("failed to save session: %v", err)
			}

			// Fresh repository, as on process startup
			repo := NewSessionRepository(db)
			session, err := repo.Load()
			if err != nil {
				t.Fatalf("failed to load session: %v", err)
			}
			if session.Token != "tok-1" {
				t.Errorf("unexpected token %q", session.Token)
			}
			if repo.Current().Username != "thom" {
				t.Error("expected Load to populate Current")
			}
		})

		t.Run("Empty Store Is Not An Error", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			session, err := NewSessionRepository(db).Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !session.Anonymous() {
				t.Error("expected an anonymous session")
			}
		})
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Save(&models.Session{Token: "tok-1", Username: "thom"}); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear session: %v", err)
		}
		if !repo.Current().Anonymous() {
			t.Error("expected an anonymous session after clear")
		}

		session, err := repo.Load()
		if err != nil {
			t.Fatalf("failed to reload: %v", err)
		}
		if !session.Anonymous() {
			t.Error("expected the cleared session to stay gone")
		}
	})
}

func TestArtistCacheRepository(t *testing.T) {
	sample := []models.Artist{
		{Name: "Radiohead", Bio: "From Oxfordshire", Listeners: 5000000},
		{Name: "Portishead", Bio: "From Bristol", Listeners: 2000000},
	}

	t.Run("Replace And List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistCacheRepository(db)
		if err := repo.Replace(sample); err != nil {
			t.Fatalf("failed to replace cache: %v", err)
		}

		artists, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list cache: %v", err)
		}
		if len(artists) != 2 {
			t.Fatalf("expected 2 cached artists, got %d", len(artists))
		}
		if artists[0].Name != "Radiohead" || artists[1].Name != "Portishead" {
			t.Errorf("expected original order, got %+v", artists)
		}
	})

	t.Run("Replace Discards The Previous Catalog", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistCacheRepository(db)
		if err := repo.Replace(sample); err != nil {
			t.Fatalf("failed to replace cache: %v", err)
		}
		if err := repo.Replace([]models.Artist{{Name: "Björk"}}); err != nil {
			t.Fatalf("failed to replace cache again: %v", err)
		}

		artists, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list cache: %v", err)
		}
		if len(artists) != 1 || artists[0].Name != "Björk" {
			t.Errorf("expected only the new catalog, got %+v", artists)
		}
	})

	t.Run("SavedAt", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistCacheRepository(db)
		saved, err := repo.SavedAt()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !saved.IsZero() {
			t.Error("expected zero time for an empty cache")
		}

		if err := repo.Replace(sample); err != nil {
			t.Fatalf("failed to replace cache: %v", err)
		}
		saved, err = repo.SavedAt()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved.IsZero() {
			t.Error("expected a timestamp after replace")
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "artist_cache")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "artist_cache")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected monotonic sequence, got %d then %d", first, second)
	}
}
