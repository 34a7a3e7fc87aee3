package views

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
)

type stubSessions struct {
	session models.Session
}

func (s *stubSessions) Current() *models.Session { return &s.session }

func signedIn() *stubSessions {
	return &stubSessions{session: models.Session{Token: "tok-1", Username: "thom"}}
}

func reviewID(r models.Review) string { return r.ReviewID }

func sampleReviews() []models.Review {
	return []models.Review{
		{ReviewID: "r1", AlbumID: "a1", Username: "thom", Rating: 5, ReviewText: "essential"},
		{ReviewID: "r2", AlbumID: "a1", Username: "beth", Rating: 3, ReviewText: "fine"},
	}
}

func TestDispatcher(t *testing.T) {
	t.Run("Authorize", func(t *testing.T) {
		t.Run("Rejects Anonymous Sessions", func(t *testing.T) {
			d := NewDispatcher(&stubSessions{})
			if err := d.Authorize(); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("Accepts A Token Bearing Session", func(t *testing.T) {
			d := NewDispatcher(signedIn())
			if err := d.Authorize(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	})

	t.Run("Username", func(t *testing.T) {
		if got := NewDispatcher(signedIn()).Username(); got != "thom" {
			t.Errorf("expected 'thom', got %q", got)
		}
		if got := NewDispatcher(&stubSessions{}).Username(); got != "" {
			t.Errorf("expected empty username for anonymous session, got %q", got)
		}
	})
}

func TestCreate(t *testing.T) {
	t.Run("Appends The Canonical Record", func(t *testing.T) {
		d := NewDispatcher(signedIn())
		before := sampleReviews()

		// The server assigns the id; the local guess never enters the list.
		canonical := models.Review{ReviewID: "r3", AlbumID: "a1", Username: "thom", Rating: 4}
		after, err := Create(context.Background(), d, before, func(ctx context.Context) (*models.Review, error) {
			return &canonical, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(after) != len(before)+1 {
			t.Fatalf("expected %d records, got %d", len(before)+1, len(after))
		}
		if after[len(after)-1].ReviewID != "r3" {
			t.Errorf("expected appended record to carry the server id, got %q", after[len(after)-1].ReviewID)
		}
		if len(before) != 2 {
			t.Error("input slice was modified")
		}
	})

	t.Run("Sends Nothing When Anonymous", func(t *testing.T) {
		d := NewDispatcher(&stubSessions{})
		calls := 0
		after, err := Create(context.Background(), d, sampleReviews(), func(ctx context.Context) (*models.Review, error) {
			calls++
			return nil, nil
		})
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if calls != 0 {
			t.Errorf("expected zero requests, got %d", calls)
		}
		if len(after) != 2 {
			t.Error("expected collection unchanged")
		}
	})

	t.Run("Failure Leaves The Collection Unchanged", func(t *testing.T) {
		d := NewDispatcher(signedIn())
		after, err := Create(context.Background(), d, sampleReviews(), func(ctx context.Context) (*models.Review, error) {
			return nil, errors.New("500 Internal Server Error")
		})
		if err == nil {
			t.Fatal("expected an error")
		}
		if len(after) != 2 {
			t.Errorf("expected 2 records, got %d", len(after))
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("Replaces Exactly One Record", func(t *testing.T) {
		d := NewDispatcher(signedIn())
		updated := models.Review{ReviewID: "r1", AlbumID: "a1", Username: "thom", Rating: 2, ReviewText: "revised"}

		after, err := Update(context.Background(), d, sampleReviews(), reviewID, func(ctx context.Context) (*models.Review, error) {
			return &updated, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(after) != 2 {
			t.Fatalf("expected collection length unchanged, got %d", len(after))
		}
		if after[0].ReviewText != "revised" || after[0].Rating != 2 {
			t.Errorf("expected r1 replaced, got %+v", after[0])
		}
		if after[1].ReviewText != "fine" {
			t.Errorf("expected r2 untouched, got %+v", after[1])
		}
	})

	t.Run("Unknown Id Is An Error", func(t *testing.T) {
		d := NewDispatcher(signedIn())
		ghost := models.Review{ReviewID: "r9"}
		_, err := Update(context.Background(), d, sampleReviews(), reviewID, func(ctx context.Context) (*models.Review, error) {
			return &ghost, nil
		})
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("Removes After Confirmation", func(t *testing.T) {
		d := NewDispatcher(signedIn())
		calls := 0
		after, err := Delete(context.Background(), d, sampleReviews(), "r1", reviewID,
			func() bool { return true },
			func(ctx context.Context) error { calls++; return nil })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("expected one request, got %d", calls)
		}
		if len(after) != 1 || after[0].ReviewID != "r2" {
			t.Errorf("expected only r2 to remain, got %+v", after)
		}
	})

	t.Run("Cancellation Sends Nothing", func(t *testing.T) {
		d := NewDispatcher(signedIn())
		calls := 0
		after, err := Delete(context.Background(), d, sampleReviews(), "r1", reviewID,
			func() bool { return false },
			func(ctx context.Context) error { calls++; return nil })
		if !errors.Is(err, shared.ErrCanceled) {
			t.Errorf("expected ErrCanceled, got %v", err)
		}
		if calls != 0 {
			t.Errorf("expected zero requests, got %d", calls)
		}
		if len(after) != 2 {
			t.Error("expected collection unchanged")
		}
	})

	t.Run("Anonymous Sessions Never Confirm", func(t *testing.T) {
		d := NewDispatcher(&stubSessions{})
		prompted := false
		_, err := Delete(context.Background(), d, sampleReviews(), "r1", reviewID,
			func() bool { prompted = true; return true },
			func(ctx context.Context) error { return nil })
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if prompted {
			t.Error("expected no confirmation prompt for an anonymous session")
		}
	})
}

func TestMutate(t *testing.T) {
	t.Run("Returns The Canonical Record", func(t *testing.T) {
		d := NewDispatcher(signedIn())
		user, err := Mutate(context.Background(), d, func(ctx context.Context) (*models.User, error) {
			return &models.User{Username: "thom", Bio: "updated bio"}, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Bio != "updated bio" {
			t.Errorf("expected canonical bio, got %q", user.Bio)
		}
	})
}
