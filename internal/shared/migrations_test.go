package shared

import (
	"database/sql"
	"testing"
)

func mustOpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	return true
}

func TestMigrations(t *testing.T) {
	t.Run("RunMigrations", func(t *testing.T) {
		db := mustOpenDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected migrations to apply, got %v", err)
		}

		for _, table := range []string{"sessions", "artist_cache", "artist_cache_sequence", "schema_migrations"} {
			if !tableExists(t, db, table) {
				t.Errorf("expected table %q to exist", table)
			}
		}
	})

	t.Run("RunMigrations Is Idempotent", func(t *testing.T) {
		db := mustOpenDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 applied migration, got %d", count)
		}
	})

	t.Run("RollbackMigration", func(t *testing.T) {
		db := mustOpenDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to apply migrations: %v", err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected rollback to succeed, got %v", err)
		}

		if tableExists(t, db, "sessions") {
			t.Error("expected sessions table to be dropped")
		}
		if tableExists(t, db, "artist_cache") {
			t.Error("expected artist_cache table to be dropped")
		}
	})

	t.Run("Rollback With No Migrations", func(t *testing.T) {
		db := mustOpenDB(t)

		if err := createMigrationsTable(db); err != nil {
			t.Fatalf("failed to create migrations table: %v", err)
		}
		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when nothing to roll back")
		}
	})
}
