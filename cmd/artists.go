package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
	"github.com/desertthunder/geet/internal/tasks"
	"github.com/desertthunder/geet/internal/views"
	"github.com/urfave/cli/v3"
)

// ArtistsList lists the artist catalog.
//
// The fetched catalog replaces the local artist cache; --cached skips the
// network and reads the cache instead.
func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	cached := cmd.Bool("cached")

	var artists []models.Artist
	var err error

	if cached {
		if r.cache == nil {
			return fmt.Errorf("%w: artist cache not initialized", shared.ErrServiceUnavailable)
		}
		r.logger.Info("reading artist cache")
		artists, err = r.cache.List()
		if err != nil {
			return fmt.Errorf("failed to read artist cache: %w", err)
		}
		if savedAt, err := r.cache.SavedAt(); err == nil && !savedAt.IsZero() {
			r.logger.Info("cache snapshot", "saved_at", savedAt)
		}
	} else {
		if r.catalog == nil {
			return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
		}
		r.logger.Info("fetching artists")
		artists, err = r.catalog.Artists(ctx)
		if err != nil {
			return err
		}
		if r.cache != nil {
			if err := r.cache.Replace(artists); err != nil {
				r.logger.Warn("failed to refresh artist cache", "error", err)
			}
		}
	}

	if useJSON {
		return r.writeJSON(artists, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Artists (%d)", len(artists)))
	for _, artist := range artists {
		r.writePlain("%s", artist.Name)
		if artist.Listeners > 0 {
			r.writePlain("  (%d listeners)", artist.Listeners)
		}
		r.writePlain("\n")
	}
	return nil
}

// ArtistShow displays one artist with their discography.
func (r *Runner) ArtistShow(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching artist", "name", name)

	artist, err := r.catalog.Artist(ctx, name)
	if err != nil {
		return err
	}

	albums, err := r.catalog.Albums(ctx, artist.Name)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"artist": artist, "albums": albums}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	if artist.Bio != "" {
		r.writePlain("%s\n\n", artist.Bio)
	}
	r.writePlain("Path: %s\n", views.ArtistPath(artist.Name))
	r.writePlain("\nAlbums (%d):\n", len(albums))
	for _, album := range albums {
		r.writePlain("  %s\n", album.Name)
	}
	return nil
}

// ArtistAdd submits a new artist to the catalog. When last.fm credentials are
// configured, a missing image and the listener count are filled from the
// matching search suggestion; last.fm search results carry no bio.
func (r *Runner) ArtistAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	if r.dispatch == nil {
		return fmt.Errorf("%w: session store not initialized", shared.ErrServiceUnavailable)
	}
	if err := r.dispatch.Authorize(); err != nil {
		return err
	}

	artist := models.Artist{
		Name:  name,
		Bio:   cmd.String("bio"),
		Image: cmd.String("image"),
	}

	if r.lastfm != nil && artist.Image == "" {
		r.logger.Info("looking up artist suggestions", "query", name)
		suggestions, err := r.lastfm.SearchArtists(ctx, name)
		if err != nil {
			r.logger.Warn("suggestion lookup failed, submitting as-is", "error", err)
		} else {
			for _, s := range suggestions {
				if !strings.EqualFold(s.Name, name) {
					continue
				}
				if artist.Image == "" {
					artist.Image = s.Image
				}
				if artist.Listeners == 0 {
					artist.Listeners = s.Listeners
				}
				break
			}
		}
	}

	created, err := r.catalog.AddArtist(ctx, artist)
	if err != nil {
		return err
	}

	r.writePlain("✓ Artist added: %s\n", created.Name)
	r.writePlain("Path: %s\n", views.ArtistPath(created.Name))
	return nil
}

// ArtistExport exports an artist's discography with reviews to disk.
func (r *Runner) ArtistExport(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	opts := tasks.DiscographyExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate-limit"),
	}

	r.logger.Info("starting discography export", "artist", name, "format", opts.Format)
	r.writePlain("Exporting discography for %s...\n\n", name)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchArtist, tasks.FetchAlbums:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportAlbum:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.ExportDiscography(ctx, progressCh, r.catalog, name, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Artist: %s\n", result.Artist)
	r.writePlain("Albums: %d (%d exported, %d failed)\n", result.TotalAlbums, result.SuccessfulExports, result.FailedExports)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlain("\nFailed albums:\n")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %s\n", res.AlbumName, res.ErrorText)
			}
		}
	}

	return nil
}

// artistsCommand handles artist catalog operations
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "artists",
		Aliases: []string{"artist"},
		Usage:   "Browse and manage the artist catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all artists in the catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read the local artist cache instead of the backend",
					},
				},
				Action: r.ArtistsList,
			},
			{
				Name:  "show",
				Usage: "Show one artist with their discography",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
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
				Action: r.ArtistShow,
			},
			{
				Name:  "add",
				Usage: "Add an artist to the catalog (requires login)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "bio",
						Usage: "Artist biography",
					},
					&cli.StringFlag{
						Name:  "image",
						Usage: "Artist image URL",
					},
				},
				Action: r.ArtistAdd,
			},
			{
				Name:  "export",
				Usage: "Export an artist's discography with reviews",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate-limit",
						Usage: "Backend requests per second",
						Value: 5.0,
					},
				},
				Action: r.ArtistExport,
			},
		},
	}
}
