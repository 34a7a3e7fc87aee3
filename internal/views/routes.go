package views

import (
	"fmt"
	"net/url"
)

// Route constructors for screen-to-screen navigation. Artist and album names
// come from user-entered catalog data and can contain reserved path
// characters, so every identifier segment is percent-encoded.

// ArtistsPath is the artist listing route.
func ArtistsPath() string { return "/artists" }

// ArtistPath returns the detail route for the named artist.
func ArtistPath(name string) string {
	return "/artist/" + url.PathEscape(name)
}

// AlbumPath returns the album detail route. The name pair addresses the
// album; the opaque id rides along for the review endpoints.
func AlbumPath(artistName, albumName, albumID string) string {
	return fmt.Sprintf("/albums/%s/%s/%s",
		url.PathEscape(artistName), url.PathEscape(albumName), url.PathEscape(albumID))
}

// UserPath returns the public profile route for a review author.
func UserPath(username string) string {
	return "/user/" + url.PathEscape(username)
}

// ProfilePath is the signed-in user's own profile route.
func ProfilePath() string { return "/profile" }
