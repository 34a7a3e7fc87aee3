package models

import (
	"errors"
	"testing"

	"github.com/desertthunder/geet/internal/shared"
)

func TestValidate(t *testing.T) {
	t.Run("Review", func(t *testing.T) {
		t.Run("Accepts In Range Ratings", func(t *testing.T) {
			review := Review{AlbumID: "alb-1", Rating: 3}
			if err := review.Validate(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})

		t.Run("Rejects Out Of Range Ratings", func(t *testing.T) {
			for _, rating := range []int{0, 6, -1} {
				review := Review{AlbumID: "alb-1", Rating: rating}
				if err := review.Validate(); !errors.Is(err, shared.ErrValidation) {
					t.Errorf("rating %d: expected ErrValidation, got %v", rating, err)
				}
			}
		})

		t.Run("Requires An Album Identifier", func(t *testing.T) {
			review := Review{Rating: 4}
			if err := review.Validate(); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	})

	t.Run("Artist", func(t *testing.T) {
		if err := (Artist{Name: "  "}).Validate(); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation for a blank name, got %v", err)
		}
		if err := (Artist{Name: "Bipul Chettri"}).Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Session", func(t *testing.T) {
		session := &Session{Username: "nina"}
		if err := session.Validate(); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation for a missing token, got %v", err)
		}

		session = &Session{Token: "tok"}
		if err := session.Validate(); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation for a missing username, got %v", err)
		}

		session = &Session{Token: "tok", Username: "nina"}
		if err := session.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
