package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/geet/internal/server"
	"github.com/desertthunder/geet/internal/shared"
	"github.com/desertthunder/geet/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Donate starts a Khalti donation: a local callback server is brought up,
// the payment page opens in the browser, and the gateway's redirect is
// verified with the backend before the server shuts down.
func (r *Runner) Donate(ctx context.Context, cmd *cli.Command) error {
	amount := int(cmd.Int("amount"))
	if amount <= 0 {
		return fmt.Errorf("%w: --amount must be positive", shared.ErrInvalidArgument)
	}

	orderID := shared.GenerateID()
	handler := server.NewDonationHandler(orderID)

	router := server.NewBasicRouter()
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start callback server: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	r.logger.Info("callback server listening", "addr", addr)
	r.writePlain("Starting donation of Rs. %d...\n\n", amount)

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
			if update.Phase == tasks.AwaitPayment {
				if url, ok := update.Data.(string); ok {
					r.writePlain("Payment page: %s\n", url)
				}
			}
		}
	}()

	err := r.engine.Donate(ctx, progressCh, amount, orderID, handler)
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlain("\n✓ Thank you for your donation!\n")
	return nil
}

// donateCommand handles Khalti donations
func donateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "donate",
		Usage: "Support the project with a Khalti donation",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "amount",
				Aliases:  []string{"a"},
				Usage:    "Donation amount in rupees",
				Required: true,
			},
		},
		Action: r.Donate,
	}
}
