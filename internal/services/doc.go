// Package services defines the [Service] interface for the review backend and implements clients for it and for last.fm.
//
// # Service Interface
//
// The catalog and review operations the CLI and TUI need are behind a common abstraction so tests can substitute doubles.
//
// # Backend Implementation
//
// [GeetService] talks to the Express backend serving artists, albums, reviews, accounts, and donations.
//
// Requests run through a shared rate limiter. When a session is stored, an [oauth2.StaticTokenSource] supplies the bearer token; the service reads the session and never writes it.
//
// # last.fm Implementation
//
// [LastFMService] queries the audioscrobbler artist.search endpoint directly for add-artist suggestions.
//
// The backend proxies every other last.fm call, so the client only needs the one method.
//
// # Raw Access
//
// [APIService] performs unshaped GET/POST requests against the backend for endpoints the typed client does not cover.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : mutation attempted without a session
//   - [shared.ErrSessionExpired] : backend rejected the stored token
//   - [shared.ErrNetwork] : transport failure before a status was received
//   - [shared.ErrAPIRequest] : HTTP request failed, carrying the server message
//   - [shared.ErrNotFound] : resource missing
//   - [shared.ErrServiceUnavailable] : backend 5xx
//
// # API Mappings
//
// The backend wraps payloads in envelopes: user payloads arrive under "data", discographies under "albums", review lists under "reviews". Album cover art uses the audioscrobbler image shape, a list of sized entries with the URL under "#text".
package services
