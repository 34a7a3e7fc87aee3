package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/geet/internal/formatter"
	"github.com/desertthunder/geet/internal/models"
)

var (
	_ list.Item = artistItem{}
	_ list.Item = albumItem{}
	_ list.Item = reviewItem{}
)

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	if i.artist.Listeners > 0 {
		return fmt.Sprintf("%d listeners", i.artist.Listeners)
	}
	if i.artist.Bio != "" {
		return i.artist.Bio
	}
	return "No details yet"
}

// albumItem wraps [models.AlbumRef] to implement [list.Item].
type albumItem struct {
	album models.AlbumRef
}

func (i albumItem) FilterValue() string { return i.album.Name }
func (i albumItem) Title() string       { return i.album.Name }
func (i albumItem) Description() string {
	if i.album.Artist != "" {
		return i.album.Artist
	}
	return "Album"
}

// reviewItem wraps [models.Review] to implement [list.Item].
type reviewItem struct {
	review models.Review
}

func (i reviewItem) FilterValue() string { return i.review.Username }
func (i reviewItem) Title() string {
	return fmt.Sprintf("%s %s", i.review.Username, formatter.Stars(i.review.Rating))
}
func (i reviewItem) Description() string {
	if i.review.ReviewText != "" {
		return i.review.ReviewText
	}
	return "No comment"
}
