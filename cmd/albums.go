package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/geet/internal/formatter"
	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
	"github.com/desertthunder/geet/internal/views"
	"github.com/urfave/cli/v3"
)

// AlbumsList lists an artist's discography.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	artist := cmd.StringArg("artist")
	if artist == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching albums", "artist", artist)

	albums, err := r.catalog.Albums(ctx, artist)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Albums by %s (%d)", artist, len(albums)))
	for _, album := range albums {
		r.writePlain("%s", album.Name)
		if album.MBID != "" {
			r.writePlain("  [%s]", album.MBID)
		}
		r.writePlain("\n")
	}
	return nil
}

// AlbumShow displays one album with its tracklist and reviews.
func (r *Runner) AlbumShow(ctx context.Context, cmd *cli.Command) error {
	artist := cmd.StringArg("artist")
	name := cmd.StringArg("album")
	id := cmd.String("id")

	if artist == "" || name == "" {
		return fmt.Errorf("%w: artist and album name", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching album", "artist", artist, "album", name)

	album, err := r.catalog.AlbumDetails(ctx, artist, name, id)
	if err != nil {
		return err
	}

	var reviews []models.Review
	if id != "" {
		if reviews, err = r.catalog.Reviews(ctx, id); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(models.AlbumExport{Album: *album, Reviews: reviews}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s by %s", album.Title, album.Artist))
	if album.Description != "" {
		r.writePlain("%s\n\n", album.Description)
	}
	r.writePlain("Path: %s\n", views.AlbumPath(artist, album.Title, id))

	if len(album.Tracks) > 0 {
		r.writePlain("\nTracks (%d):\n", len(album.Tracks))
		for i, track := range album.Tracks {
			r.writePlain("  %d. %s\n", i+1, track.Name)
		}
	}

	if id != "" {
		r.writePlain("\nReviews (%d):\n", len(reviews))
		for _, review := range reviews {
			r.writePlain("  %s %s\n", review.Username, formatter.Stars(review.Rating))
			if review.ReviewText != "" {
				r.writePlain("    %s\n", review.ReviewText)
			}
		}
	}

	return nil
}

// albumsCommand handles album browsing operations
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"album"},
		Usage:   "Browse albums and their reviews",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List an artist's albums",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "artist"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AlbumsList,
			},
			{
				Name:  "show",
				Usage: "Show an album with tracks and reviews",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "artist"},
					&cli.StringArg{Name: "album"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Album id used for review lookups",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.AlbumShow,
			},
		},
	}
}
