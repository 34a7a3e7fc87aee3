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

func reviewID(review models.Review) string { return review.ReviewID }

// ReviewsList lists the reviews for an album.
func (r *Runner) ReviewsList(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.StringArg("album-id")
	if albumID == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching reviews", "album", albumID)

	reviews, err := r.catalog.Reviews(ctx, albumID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(reviews, cmd.Bool("pretty"))
	}

	r.writeReviews(fmt.Sprintf("Reviews (%d)", len(reviews)), reviews)
	return nil
}

// ReviewsMine lists the signed-in user's reviews.
func (r *Runner) ReviewsMine(ctx context.Context, cmd *cli.Command) error {
	if err := r.dispatch.Authorize(); err != nil {
		return err
	}

	reviews, err := r.catalog.MyReviews(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(reviews, cmd.Bool("pretty"))
	}

	r.writeReviews(fmt.Sprintf("Your reviews (%d)", len(reviews)), reviews)
	return nil
}

// ReviewsUser lists another user's public reviews.
func (r *Runner) ReviewsUser(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	reviews, err := r.catalog.UserReviews(ctx, username)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(reviews, cmd.Bool("pretty"))
	}

	r.writeReviews(fmt.Sprintf("Reviews by %s (%d)", username, len(reviews)), reviews)
	r.writePlain("\nProfile: %s\n", views.UserPath(username))
	return nil
}

// ReviewAdd posts a review for an album.
func (r *Runner) ReviewAdd(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.StringArg("album-id")
	rating := int(cmd.Int("rating"))
	text := cmd.String("text")

	if albumID == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	review := models.Review{
		AlbumID:    albumID,
		Rating:     rating,
		ReviewText: text,
	}
	if err := review.Validate(); err != nil {
		return err
	}

	r.logger.Info("posting review", "album", albumID, "rating", rating)

	reviews, err := views.Create(ctx, r.dispatch, nil, func(ctx context.Context) (*models.Review, error) {
		return r.catalog.CreateReview(ctx, review)
	})
	if err != nil {
		return err
	}

	created := reviews[len(reviews)-1]
	r.writePlain("✓ Review posted: %s\n", formatter.Stars(created.Rating))
	return nil
}

// ReviewEdit replaces the rating and text of one of the user's reviews.
func (r *Runner) ReviewEdit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	rating := int(cmd.Int("rating"))
	text := cmd.String("text")

	if id == "" {
		return fmt.Errorf("%w: review id", shared.ErrMissingArgument)
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", shared.ErrValidation, models.MinRating, models.MaxRating)
	}

	r.logger.Info("updating review", "id", id, "rating", rating)

	if err := r.dispatch.Authorize(); err != nil {
		return err
	}

	updated, err := r.catalog.UpdateReview(ctx, id, rating, text)
	if err != nil {
		return err
	}

	r.writePlain("✓ Review updated: %s\n", formatter.Stars(updated.Rating))
	return nil
}

// ReviewDelete removes one of the user's reviews after confirmation.
func (r *Runner) ReviewDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: review id", shared.ErrMissingArgument)
	}

	confirm := func() bool {
		return r.confirm(fmt.Sprintf("Delete review %s? [y/N] ", id))
	}
	if cmd.Bool("yes") {
		confirm = func() bool { return true }
	}

	list := []models.Review{{ReviewID: id}}
	_, err := views.Delete(ctx, r.dispatch, list, id, reviewID, confirm,
		func(ctx context.Context) error { return r.catalog.DeleteReview(ctx, id) })
	if err != nil {
		return err
	}

	r.writePlain("✓ Review deleted\n")
	return nil
}

func (r *Runner) writeReviews(title string, reviews []models.Review) {
	r.writePlainHeader(title)
	for _, review := range reviews {
		r.writePlain("%s %s", review.Username, formatter.Stars(review.Rating))
		if review.AlbumName != "" {
			r.writePlain("  %s", review.AlbumName)
			if review.ArtistName != "" {
				r.writePlain(" by %s", review.ArtistName)
			}
		}
		r.writePlain("\n")
		if review.ReviewText != "" {
			r.writePlain("  %s\n", review.ReviewText)
		}
	}
}

// reviewsCommand handles review operations
func reviewsCommand(r *Runner) *cli.Command {
	outputFlags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}

	return &cli.Command{
		Name:    "reviews",
		Aliases: []string{"review"},
		Usage:   "Read and write star reviews",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List reviews for an album",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "album-id"},
				},
				Flags:  outputFlags,
				Action: r.ReviewsList,
			},
			{
				Name:   "mine",
				Usage:  "List your reviews (requires login)",
				Flags:  outputFlags,
				Action: r.ReviewsMine,
			},
			{
				Name:  "user",
				Usage: "List another user's reviews",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags:  outputFlags,
				Action: r.ReviewsUser,
			},
			{
				Name:  "add",
				Usage: "Post a review (requires login)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "album-id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "rating",
						Aliases:  []string{"r"},
						Usage:    "Star rating from 1 to 5",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "text",
						Aliases: []string{"t"},
						Usage:   "Review text",
					},
				},
				Action: r.ReviewAdd,
			},
			{
				Name:  "edit",
				Usage: "Edit one of your reviews (requires login)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "rating",
						Aliases:  []string{"r"},
						Usage:    "Star rating from 1 to 5",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "text",
						Aliases: []string{"t"},
						Usage:   "Review text",
					},
				},
				Action: r.ReviewEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete one of your reviews (requires login)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.ReviewDelete,
			},
		},
	}
}
