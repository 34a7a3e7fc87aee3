package views

import (
	"context"
	"sync"
)

// FetchFunc loads the resource identified by params. Implementations return
// a nil payload only when the server answered with nothing.
type FetchFunc[P comparable, T any] func(ctx context.Context, params P) (*T, error)

// Fetcher issues read requests keyed by a parameter tuple.
//
// Two guarantees hold for every view using a Fetcher:
//
//   - at most one request is issued per distinct parameter tuple; calling
//     [Fetcher.Begin] again with unchanged params (an unrelated re-render)
//     starts nothing
//   - every request carries a sequence number, and a completion whose
//     sequence is no longer the latest is discarded, so a slow response for
//     stale params can never overwrite a newer one
type Fetcher[P comparable, T any] struct {
	mu      sync.Mutex
	fn      FetchFunc[P, T]
	seq     uint64
	params  P
	started bool
	result  Result[T]
}

// Request is a single issued fetch, bound to the sequence number it was
// given at [Fetcher.Begin] time.
type Request[P comparable, T any] struct {
	fetcher *Fetcher[P, T]
	params  P
	seq     uint64
}

// NewFetcher creates a Fetcher around the given fetch function.
func NewFetcher[P comparable, T any](fn FetchFunc[P, T]) *Fetcher[P, T] {
	return &Fetcher[P, T]{fn: fn, result: Loading[T]()}
}

// Begin registers intent to load the resource for params. It returns a
// request to run when params differ from the last issued tuple, and (nil,
// false) when the tuple is unchanged and a request was already issued.
func (f *Fetcher[P, T]) Begin(params P) (*Request[P, T], bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.started && params == f.params {
		return nil, false
	}

	f.seq++
	f.params = params
	f.started = true
	f.result = Loading[T]()

	return &Request[P, T]{fetcher: f, params: params, seq: f.seq}, true
}

// Reload re-issues the last parameter tuple, bypassing deduplication. Used
// for explicit retry after a failure; returns false if Begin was never called.
func (f *Fetcher[P, T]) Reload() (*Request[P, T], bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return nil, false
	}

	f.seq++
	f.result = Loading[T]()

	return &Request[P, T]{fetcher: f, params: f.params, seq: f.seq}, true
}

// Result returns the current state of the view's resource slot.
func (f *Fetcher[P, T]) Result() Result[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Params returns the last issued parameter tuple.
func (f *Fetcher[P, T]) Params() (P, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params, f.started
}

// complete records a request outcome, discarding it when a newer request
// has been issued since.
func (f *Fetcher[P, T]) complete(seq uint64, payload *T, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq {
		return
	}

	if err != nil {
		f.result = Failed[T](err.Error())
		return
	}
	f.result = Ready(payload)
}

// Run executes the fetch and records its outcome, returning the fetcher's
// result afterwards. When the request went stale mid-flight the returned
// result reflects the newer request, not this one.
func (r *Request[P, T]) Run(ctx context.Context) Result[T] {
	payload, err := r.fetcher.fn(ctx, r.params)
	r.fetcher.complete(r.seq, payload, err)
	return r.fetcher.Result()
}

// Seq exposes the request's sequence number.
func (r *Request[P, T]) Seq() uint64 { return r.seq }

// Params returns the tuple this request was issued for.
func (r *Request[P, T]) Params() P { return r.params }
