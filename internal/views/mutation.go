package views

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
)

// SessionSource provides read access to the current session. Views read the
// session, never write it; the write path (login/logout) lives in the
// session repository.
type SessionSource interface {
	Current() *models.Session
}

// MutationFunc performs a write request and returns the server's canonical
// record for the mutated entity.
type MutationFunc[T any] func(ctx context.Context) (*T, error)

// Dispatcher applies write intents and reconciles in-memory collections
// afterwards by local append/replace/remove rather than re-fetching.
//
// Mutations that require authorization are rejected before any network call
// when the session is anonymous, and a failed mutation always leaves the
// prior collection unchanged.
type Dispatcher struct {
	sessions SessionSource
}

// NewDispatcher creates a Dispatcher reading sessions from the given source.
func NewDispatcher(sessions SessionSource) *Dispatcher {
	return &Dispatcher{sessions: sessions}
}

// Username returns the session username, or "" when anonymous.
func (d *Dispatcher) Username() string {
	if s := d.sessions.Current(); !s.Anonymous() {
		return s.Username
	}
	return ""
}

// Authorize rejects the intent when no session token is present.
func (d *Dispatcher) Authorize() error {
	if d.sessions.Current().Anonymous() {
		return fmt.Errorf("%w: log in to continue", shared.ErrNotAuthenticated)
	}
	return nil
}

// Create runs an authorized create intent and appends the server-returned
// record to the collection. The input slice is never modified.
func Create[T any](ctx context.Context, d *Dispatcher, list []T, send MutationFunc[T]) ([]T, error) {
	if err := d.Authorize(); err != nil {
		return list, err
	}

	created, err := send(ctx)
	if err != nil {
		return list, err
	}
	if created == nil {
		return list, fmt.Errorf("%w: server returned no record", shared.ErrAPIRequest)
	}

	return append(slices.Clone(list), *created), nil
}

// Update runs an authorized update intent and replaces the matching record
// in place. Exactly one record changes; the collection length does not.
func Update[T any](ctx context.Context, d *Dispatcher, list []T, idOf func(T) string, send MutationFunc[T]) ([]T, error) {
	if err := d.Authorize(); err != nil {
		return list, err
	}

	updated, err := send(ctx)
	if err != nil {
		return list, err
	}
	if updated == nil {
		return list, fmt.Errorf("%w: server returned no record", shared.ErrAPIRequest)
	}

	next, replaced := ReplaceByID(list, *updated, idOf)
	if !replaced {
		return list, fmt.Errorf("%w: no record with id %s", shared.ErrNotFound, idOf(*updated))
	}
	return next, nil
}

// Delete runs an authorized delete intent, gated behind explicit
// confirmation. Canceling confirmation returns the collection unchanged with
// [shared.ErrCanceled]; no request is sent.
func Delete[T any](ctx context.Context, d *Dispatcher, list []T, id string, idOf func(T) string, confirm func() bool, send func(ctx context.Context) error) ([]T, error) {
	if err := d.Authorize(); err != nil {
		return list, err
	}

	if confirm == nil || !confirm() {
		return list, shared.ErrCanceled
	}

	if err := send(ctx); err != nil {
		return list, err
	}

	next, removed := RemoveByID(list, id, idOf)
	if !removed {
		return list, fmt.Errorf("%w: no record with id %s", shared.ErrNotFound, id)
	}
	return next, nil
}

// Mutate runs an authorized single-record mutation (e.g. a bio update) and
// returns the server's canonical record.
func Mutate[T any](ctx context.Context, d *Dispatcher, send MutationFunc[T]) (*T, error) {
	if err := d.Authorize(); err != nil {
		return nil, err
	}
	return send(ctx)
}

// ReplaceByID returns a copy of list with the record matching updated's id
// swapped out, and whether a match was found.
func ReplaceByID[T any](list []T, updated T, idOf func(T) string) ([]T, bool) {
	id := idOf(updated)
	for i := range list {
		if idOf(list[i]) == id {
			next := slices.Clone(list)
			next[i] = updated
			return next, true
		}
	}
	return list, false
}

// RemoveByID returns a copy of list without the record matching id, and
// whether a match was found.
func RemoveByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	for i := range list {
		if idOf(list[i]) == id {
			next := slices.Clone(list)
			return slices.Delete(next, i, i+1), true
		}
	}
	return list, false
}
