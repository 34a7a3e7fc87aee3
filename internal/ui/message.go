package ui

import (
	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/views"
)

// artistPage is everything the artist detail screen renders: the artist
// record plus its discography, loaded as one unit.
type artistPage struct {
	Artist models.Artist
	Albums []models.AlbumRef
}

// albumKey addresses an album detail fetch. The name pair identifies the
// album; ID carries the backend id used for review lookups when present.
type albumKey struct {
	Artist string
	Album  string
	ID     string
}

// albumPage is everything the album detail screen renders.
type albumPage struct {
	Album   models.Album
	Reviews []models.Review
}

// Messages delivered to [Model.Update] when background commands finish.
type (
	artistsLoadedMsg struct {
		result views.Result[[]models.Artist]
	}

	artistLoadedMsg struct {
		name   string
		result views.Result[artistPage]
	}

	albumLoadedMsg struct {
		key    albumKey
		result views.Result[albumPage]
	}

	// reviewsChangedMsg carries the reconciled review collection after a
	// create, update, or delete settles.
	reviewsChangedMsg struct {
		reviews []models.Review
		err     error
	}

	profileLoadedMsg struct {
		result views.Result[models.User]
	}

	bioSavedMsg struct {
		user *models.User
		err  error
	}
)
