// package tasks implements multi-request flows against the review backend.
//
// The core abstraction is FlowEngine, which orchestrates account signup, password
// reset, donations, and discography exports.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/geet/internal/services"
	"github.com/desertthunder/geet/internal/shared"
)

// SignupParams carries everything the registration flow needs up front.
type SignupParams struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate performs the client-side checks that must fail before any request.
func (p SignupParams) Validate() error {
	if p.Username == "" || p.Email == "" || p.Password == "" {
		return fmt.Errorf("%w: username, email, and password", shared.ErrMissingArgument)
	}
	if p.Password != p.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", shared.ErrValidation)
	}
	return nil
}

// ResetParams carries the password reset flow's inputs.
type ResetParams struct {
	Email           string
	NewPassword     string
	ConfirmPassword string
}

func (p ResetParams) Validate() error {
	if p.Email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}
	if p.NewPassword == "" {
		return fmt.Errorf("%w: new password", shared.ErrMissingArgument)
	}
	if p.NewPassword != p.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", shared.ErrValidation)
	}
	return nil
}

// OTPPrompt asks the user for the one-time code the backend emailed them.
type OTPPrompt func() (string, error)

// CallbackWaiter blocks until the payment gateway redirects back to the
// local callback server, then yields the captured parameters.
type CallbackWaiter interface {
	Wait(ctx context.Context) (services.DonationCallback, error)
}

// Engine defines the client's multi-request flows.
type Engine interface {
	// Signup registers an account and confirms the emailed OTP.
	Signup(ctx context.Context, progress chan<- ProgressUpdate, params SignupParams, promptOTP OTPPrompt) error

	// ResetPassword walks the forgot-password chain: request a code, confirm
	// it, set the new password.
	ResetPassword(ctx context.Context, progress chan<- ProgressUpdate, params ResetParams, promptOTP OTPPrompt) error

	// Donate initiates a Khalti payment under the caller's order id, opens
	// the payment page, and verifies the gateway callback. The caller owns
	// the order id so the callback listener can be registered against it
	// before any request is made.
	Donate(ctx context.Context, progress chan<- ProgressUpdate, amount int, orderID string, waiter CallbackWaiter) error
}

// FlowEngine implements [Engine] against the backend services.
type FlowEngine struct {
	accounts  services.AccountService
	donations services.DonationService

	// openBrowser is swappable for tests; defaults to shared.OpenBrowser.
	openBrowser func(url string) error
}

// NewFlowEngine creates a FlowEngine with the provided services.
func NewFlowEngine(accounts services.AccountService, donations services.DonationService) *FlowEngine {
	return &FlowEngine{
		accounts:    accounts,
		donations:   donations,
		openBrowser: shared.OpenBrowser,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *FlowEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Signup registers an account and confirms the emailed OTP.
func (e *FlowEngine) Signup(ctx context.Context, progress chan<- ProgressUpdate, params SignupParams, promptOTP OTPPrompt) error {
	if e.accounts == nil {
		return fmt.Errorf("%w: account service not initialized", shared.ErrServiceUnavailable)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	e.sendProgress(progress, phaseUpdate(Register, 1, 2, "Creating account..."))
	if err := e.accounts.Register(ctx, params.Username, params.Email, params.Password); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	otp, err := promptOTP()
	if err != nil {
		return err
	}
	if otp == "" {
		return fmt.Errorf("%w: verification code", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, phaseUpdate(VerifyOTP, 2, 2, "Verifying code..."))
	if err := e.accounts.VerifyOTP(ctx, params.Email, otp); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	return nil
}

// ResetPassword walks the forgot-password chain.
func (e *FlowEngine) ResetPassword(ctx context.Context, progress chan<- ProgressUpdate, params ResetParams, promptOTP OTPPrompt) error {
	if e.accounts == nil {
		return fmt.Errorf("%w: account service not initialized", shared.ErrServiceUnavailable)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	e.sendProgress(progress, phaseUpdate(ForgotPassword, 1, 3, "Requesting reset code..."))
	if err := e.accounts.ForgotPassword(ctx, params.Email); err != nil {
		return fmt.Errorf("reset request failed: %w", err)
	}

	otp, err := promptOTP()
	if err != nil {
		return err
	}
	if otp == "" {
		return fmt.Errorf("%w: reset code", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, phaseUpdate(ResetOTP, 2, 3, "Confirming reset code..."))
	if err := e.accounts.ResetOTP(ctx, params.Email, otp); err != nil {
		return fmt.Errorf("code confirmation failed: %w", err)
	}

	e.sendProgress(progress, phaseUpdate(ResetPassword, 3, 3, "Setting new password..."))
	if err := e.accounts.ResetPassword(ctx, params.Email, params.NewPassword); err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}

	return nil
}

// Donate initiates a Khalti payment, opens the payment page in the browser,
// waits for the gateway to redirect to the local callback server, and
// verifies the payment with the backend.
func (e *FlowEngine) Donate(ctx context.Context, progress chan<- ProgressUpdate, amount int, orderID string, waiter CallbackWaiter) error {
	if e.donations == nil {
		return fmt.Errorf("%w: donation service not initialized", shared.ErrServiceUnavailable)
	}
	if waiter == nil {
		return fmt.Errorf("%w: callback server not running", shared.ErrServiceUnavailable)
	}
	if orderID == "" {
		return fmt.Errorf("%w: order id", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, phaseUpdate(InitiatePayment, 1, 3, "Initiating donation..."))
	paymentURL, err := e.donations.InitiateDonation(ctx, amount, orderID)
	if err != nil {
		return err
	}

	e.sendProgress(progress, awaitPaymentUpdate(paymentURL))
	if err := e.openBrowser(paymentURL); err != nil {
		// The URL is still in the progress update; the user can open it by hand.
		e.sendProgress(progress, phaseUpdate(AwaitPayment, 2, 3, fmt.Sprintf("Open %s to complete the payment", paymentURL)))
	}

	callback, err := waiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPaymentCanceled, err)
	}
	if callback.OrderID != orderID {
		return fmt.Errorf("%w: callback order id does not match", shared.ErrPaymentFailed)
	}

	e.sendProgress(progress, phaseUpdate(VerifyPayment, 3, 3, "Verifying payment..."))
	if err := e.donations.CompleteDonation(ctx, callback); err != nil {
		return err
	}

	return nil
}
