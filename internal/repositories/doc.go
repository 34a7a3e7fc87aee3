// Package repositories implements SQLite persistence for the client's local state.
//
// The backend owns the catalog, reviews, and accounts; the local database holds only what a standalone client needs between runs.
//
// Key Implementations:
//   - [SessionRepository] : the stored login session, restored on startup and cleared on logout
//   - [ArtistCacheRepository] : the last fetched artist catalog, for offline display
//
// Sequence numbers provide stable ordering for cached rows independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
