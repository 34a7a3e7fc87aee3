package views

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestFetcher(t *testing.T) {
	t.Run("Begin", func(t *testing.T) {
		t.Run("Issues One Request Per Tuple", func(t *testing.T) {
			var calls atomic.Int32
			f := NewFetcher(func(ctx context.Context, name string) (*string, error) {
				calls.Add(1)
				v := "artist:" + name
				return &v, nil
			})

			req, ok := f.Begin("Radiohead")
			if !ok {
				t.Fatal("expected first Begin to issue a request")
			}
			req.Run(context.Background())

			// Unrelated re-render with unchanged params
			if _, ok := f.Begin("Radiohead"); ok {
				t.Error("expected Begin with unchanged params to be a no-op")
			}
			if got := calls.Load(); got != 1 {
				t.Errorf("expected exactly 1 request, got %d", got)
			}
		})

		t.Run("Retriggers On Parameter Change", func(t *testing.T) {
			var calls atomic.Int32
			f := NewFetcher(func(ctx context.Context, name string) (*string, error) {
				calls.Add(1)
				return &name, nil
			})

			if req, ok := f.Begin("Radiohead"); ok {
				req.Run(context.Background())
			}
			req, ok := f.Begin("Portishead")
			if !ok {
				t.Fatal("expected Begin with new params to issue a request")
			}
			req.Run(context.Background())

			if got := calls.Load(); got != 2 {
				t.Errorf("expected 2 requests, got %d", got)
			}
			if params, _ := f.Params(); params != "Portishead" {
				t.Errorf("expected latest params 'Portishead', got %q", params)
			}
		})

		t.Run("Stays Quiet After A Failure", func(t *testing.T) {
			var calls atomic.Int32
			f := NewFetcher(func(ctx context.Context, name string) (*string, error) {
				calls.Add(1)
				return nil, errors.New("backend down")
			})

			if req, ok := f.Begin("Radiohead"); ok {
				req.Run(context.Background())
			}
			if _, ok := f.Begin("Radiohead"); ok {
				t.Error("expected Begin with unchanged params to no-op after a failure")
			}
			if got := calls.Load(); got != 1 {
				t.Errorf("expected 1 request, got %d", got)
			}

			req, ok := f.Reload()
			if !ok {
				t.Fatal("expected Reload to retry the failed tuple")
			}
			req.Run(context.Background())
			if got := calls.Load(); got != 2 {
				t.Errorf("expected Reload to issue the retry, got %d requests", got)
			}
		})

		t.Run("Starts In Loading State", func(t *testing.T) {
			f := NewFetcher(func(ctx context.Context, name string) (*string, error) {
				return &name, nil
			})
			f.Begin("Radiohead")

			if f.Result().Status() != StatusLoading {
				t.Errorf("expected loading before completion, got %v", f.Result().Status())
			}
		})
	})

	t.Run("Stale Responses Are Discarded", func(t *testing.T) {
		f := NewFetcher(func(ctx context.Context, name string) (*string, error) {
			v := "bio of " + name
			return &v, nil
		})

		// The request for the first tuple is still in flight when the
		// parameters change.
		stale, ok := f.Begin("Radiohead")
		if !ok {
			t.Fatal("expected first request")
		}
		fresh, ok := f.Begin("Portishead")
		if !ok {
			t.Fatal("expected second request")
		}

		fresh.Run(context.Background())
		stale.Run(context.Background())

		payload, ready := f.Result().Payload()
		if !ready {
			t.Fatal("expected ready result")
		}
		if *payload != "bio of Portishead" {
			t.Errorf("stale response overwrote the newer one: %q", *payload)
		}
	})

	t.Run("Failure Reason Surfaces Verbatim", func(t *testing.T) {
		f := NewFetcher(func(ctx context.Context, name string) (*string, error) {
			return nil, errors.New("Failed to fetch album details")
		})

		req, _ := f.Begin("abc123")
		result := req.Run(context.Background())

		if result.Status() != StatusFailed {
			t.Fatalf("expected failed status, got %v", result.Status())
		}
		if result.Reason() != "Failed to fetch album details" {
			t.Errorf("expected verbatim reason, got %q", result.Reason())
		}
	})

	t.Run("Empty Payload Is Not Ready", func(t *testing.T) {
		f := NewFetcher(func(ctx context.Context, name string) (*string, error) {
			return nil, nil
		})

		req, _ := f.Begin("ghost")
		result := req.Run(context.Background())

		if result.Status() == StatusReady {
			t.Error("expected a nil payload to never render the ready branch")
		}
		if result.Status() == StatusLoading {
			t.Error("expected a resolved fetch to be distinguishable from an unresolved one")
		}
		if _, ok := result.Payload(); ok {
			t.Error("expected no payload")
		}
	})

	t.Run("Reload", func(t *testing.T) {
		t.Run("Reissues Last Tuple", func(t *testing.T) {
			var calls atomic.Int32
			f := NewFetcher(func(ctx context.Context, name string) (*string, error) {
				if calls.Add(1) == 1 {
					return nil, errors.New("connection refused")
				}
				return &name, nil
			})

			req, _ := f.Begin("Radiohead")
			req.Run(context.Background())
			if f.Result().Status() != StatusFailed {
				t.Fatal("expected first attempt to fail")
			}

			retry, ok := f.Reload()
			if !ok {
				t.Fatal("expected Reload to issue a request")
			}
			if retry.Params() != "Radiohead" {
				t.Errorf("expected reload of 'Radiohead', got %q", retry.Params())
			}
			result := retry.Run(context.Background())
			if result.Status() != StatusReady {
				t.Errorf("expected retry to succeed, got %v", result.Status())
			}
		})

		t.Run("Requires A Prior Begin", func(t *testing.T) {
			f := NewFetcher(func(ctx context.Context, name string) (*string, error) {
				return &name, nil
			})
			if _, ok := f.Reload(); ok {
				t.Error("expected Reload before Begin to be a no-op")
			}
		})
	})
}
