// package views implements the fetch/render/mutate lifecycle shared by every
// screen in the client.
//
// The same four pieces repeat on each screen: a parameterized [Fetcher] that
// issues at most one request per distinct parameter tuple and discards stale
// completions, a three-state [Result] selecting exactly one render branch, a
// [Dispatcher] that applies writes and reconciles the in-memory collection
// without a full re-fetch, and route constructors for moving between screens.
package views
