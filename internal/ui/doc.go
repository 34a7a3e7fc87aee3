// package ui implements the interactive terminal interface with [bubbletea].
//
// # Screens
//
// The TUI is a stack of screens selected by [ViewState]:
//
//   - ArtistListView: the artist catalog
//   - ArtistDetailView: one artist with their discography
//   - AlbumDetailView: one album with its reviews
//   - ReviewFormView: write or edit a star review
//   - ConfirmDeleteView: confirm before a review is deleted
//   - ProfileView: the signed-in user's profile and bio
//
// # Data Loading
//
// Every screen that loads remote data owns a [views.Fetcher], so pressing
// into the same screen twice issues one request and a stale response never
// overwrites a newer one. Fetches run as [tea.Cmd] closures and deliver
// their [views.Result] back through typed messages.
//
// # Mutations
//
// Review writes go through [views.Dispatcher]: anonymous sessions are
// rejected before any request, creates append the server's record, edits
// replace in place, and deletes require the confirmation screen first.
package ui
