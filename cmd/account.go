package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/shared"
	"github.com/desertthunder/geet/internal/tasks"
	"github.com/desertthunder/geet/internal/views"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// promptPassword reads a password without echoing when the runner's input is
// the terminal, falling back to a plain line read otherwise.
func (r *Runner) promptPassword(prompt string) (string, error) {
	if r.input != os.Stdin || !term.IsTerminal(int(os.Stdin.Fd())) {
		return r.promptLine(prompt)
	}

	if err := r.writePlain("%s", prompt); err != nil {
		return "", err
	}
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	r.writePlain("\n")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func (r *Runner) promptOTP() tasks.OTPPrompt {
	return func() (string, error) {
		return r.promptLine("Enter the code sent to your email: ")
	}
}

// AccountRegister creates an account and confirms the emailed OTP.
func (r *Runner) AccountRegister(ctx context.Context, cmd *cli.Command) error {
	params := tasks.SignupParams{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}

	var err error
	if params.Password == "" {
		if params.Password, err = r.promptPassword("Password: "); err != nil {
			return err
		}
		if params.ConfirmPassword, err = r.promptPassword("Confirm password: "); err != nil {
			return err
		}
	} else {
		params.ConfirmPassword = params.Password
	}

	r.logger.Info("registering account", "username", params.Username)

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	err = r.engine.Signup(ctx, progressCh, params, r.promptOTP())
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlain("✓ Account created. Run 'geet account login' to sign in.\n")
	return nil
}

// AccountLogin signs in and persists the session for later invocations.
func (r *Runner) AccountLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	var err error
	if email == "" {
		if email, err = r.promptLine("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = r.promptPassword("Password: "); err != nil {
			return err
		}
	}

	r.logger.Info("logging in", "email", email)

	session, err := r.accounts.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := r.sessions.Save(session); err != nil {
		return fmt.Errorf("logged in but failed to persist session: %w", err)
	}

	r.writePlain("✓ Logged in as %s\n", session.Username)
	return nil
}

// AccountLogout clears the stored session.
func (r *Runner) AccountLogout(ctx context.Context, cmd *cli.Command) error {
	if r.sessions.Current().Anonymous() {
		r.writePlain("Not logged in\n")
		return nil
	}

	if err := r.sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.writePlain("✓ Logged out\n")
	return nil
}

// AccountProfile displays the signed-in user's profile.
func (r *Runner) AccountProfile(ctx context.Context, cmd *cli.Command) error {
	if err := r.dispatch.Authorize(); err != nil {
		return err
	}

	user, err := r.catalog.Profile(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlainHeader(user.Username)
	r.writePlain("Email: %s\n", user.Email)
	if user.Bio != "" {
		r.writePlain("Bio: %s\n", user.Bio)
	}
	r.writePlain("Reviews: %d\n", len(user.ReviewedAlbums))
	r.writePlain("Path: %s\n", views.ProfilePath())
	return nil
}

// AccountBio replaces the signed-in user's bio.
func (r *Runner) AccountBio(ctx context.Context, cmd *cli.Command) error {
	bio := cmd.StringArg("bio")
	if bio == "" {
		return fmt.Errorf("%w: bio text", shared.ErrMissingArgument)
	}

	user, err := views.Mutate(ctx, r.dispatch, func(ctx context.Context) (*models.User, error) {
		return r.catalog.UpdateBio(ctx, bio)
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Bio updated for %s\n", user.Username)
	return nil
}

// AccountResetPassword walks the forgot-password flow.
func (r *Runner) AccountResetPassword(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")

	var err error
	if email == "" {
		if email, err = r.promptLine("Email: "); err != nil {
			return err
		}
	}

	params := tasks.ResetParams{Email: email}
	if params.NewPassword, err = r.promptPassword("New password: "); err != nil {
		return err
	}
	if params.ConfirmPassword, err = r.promptPassword("Confirm password: "); err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	err = r.engine.ResetPassword(ctx, progressCh, params, r.promptOTP())
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlain("✓ Password reset. Run 'geet account login' to sign in.\n")
	return nil
}

// accountCommand handles registration, login, and profile operations
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account and verify your email",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Account password (prompted when omitted)",
					},
				},
				Action: r.AccountRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in and save the session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "Account password (prompted when omitted)",
					},
				},
				Action: r.AccountLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the saved session",
				Action: r.AccountLogout,
			},
			{
				Name:  "profile",
				Usage: "Show your profile (requires login)",
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
				Action: r.AccountProfile,
			},
			{
				Name:  "bio",
				Usage: "Update your bio (requires login)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "bio"},
				},
				Action: r.AccountBio,
			},
			{
				Name:    "reset-password",
				Aliases: []string{"forgot"},
				Usage:   "Reset your password with an emailed code",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
				},
				Action: r.AccountResetPassword,
			},
		},
	}
}
