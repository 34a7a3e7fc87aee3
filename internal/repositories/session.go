package repositories

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
)

// SessionRepository persists the current session in SQLite and serves it to
// readers through [SessionRepository.Current].
//
// Lifecycle: Load restores the session on startup, Save replaces it after
// login, Clear removes it on logout. At most one session row exists.
type SessionRepository struct {
	db *sql.DB

	mu      sync.RWMutex
	current models.Session
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Current returns the in-memory copy of the stored session. Anonymous when
// nothing was loaded or saved.
func (r *SessionRepository) Current() *models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session := r.current
	return &session
}

// Load restores the stored session, if any. A missing row is not an error;
// the client simply starts anonymous.
func (r *SessionRepository) Load() (*models.Session, error) {
	query := `
		SELECT token, username, email, created_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT 1
	`

	var session models.Session
	err := r.db.QueryRow(query).Scan(&session.Token, &session.Username, &session.Email, &session.Saved)
	if err == sql.ErrNoRows {
		return r.Current(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	r.mu.Lock()
	r.current = session
	r.mu.Unlock()

	return r.Current(), nil
}

// Save replaces the stored session.
func (r *SessionRepository) Save(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO sessions (id, token, username, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query, shared.GenerateID(), session.Token, session.Username, session.Email, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	r.mu.Lock()
	r.current = *session
	r.current.Saved = now
	r.mu.Unlock()

	return nil
}

// Clear removes the stored session.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.mu.Lock()
	r.current = models.Session{}
	r.mu.Unlock()

	return nil
}
