package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/geet/internal/models"
	"github.com/desertthunder/geet/internal/services"
	"github.com/desertthunder/geet/internal/shared"
)

// fakeAccounts records account endpoint calls in order.
type fakeAccounts struct {
	calls []string
	fail  map[string]error
}

func (f *fakeAccounts) record(name string) error {
	f.calls = append(f.calls, name)
	if f.fail != nil {
		return f.fail[name]
	}
	return nil
}

func (f *fakeAccounts) Register(ctx context.Context, username, email, password string) error {
	return f.record("register")
}
func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return nil, f.record("login")
}
func (f *fakeAccounts) VerifyOTP(ctx context.Context, email, otp string) error {
	return f.record("verify-otp")
}
func (f *fakeAccounts) ForgotPassword(ctx context.Context, email string) error {
	return f.record("forgot-password")
}
func (f *fakeAccounts) ResetOTP(ctx context.Context, email, otp string) error {
	return f.record("reset-otp")
}
func (f *fakeAccounts) ResetPassword(ctx context.Context, email, password string) error {
	return f.record("reset-password")
}

// fakeDonations captures the initiate order id so tests can echo it back.
type fakeDonations struct {
	orderID     string
	completed   *services.DonationCallback
	initiateErr error
	completeErr error
}

func (f *fakeDonations) InitiateDonation(ctx context.Context, amount int, orderID string) (string, error) {
	if f.initiateErr != nil {
		return "", f.initiateErr
	}
	f.orderID = orderID
	return "https://khalti.example/pay", nil
}

func (f *fakeDonations) CompleteDonation(ctx context.Context, callback services.DonationCallback) error {
	f.completed = &callback
	return f.completeErr
}

type fakeWaiter struct {
	callback func() services.DonationCallback
	err      error
}

func (f *fakeWaiter) Wait(ctx context.Context) (services.DonationCallback, error) {
	if f.err != nil {
		return services.DonationCallback{}, f.err
	}
	return f.callback(), nil
}

func quietBrowser(e *FlowEngine) *FlowEngine {
	e.openBrowser = func(string) error { return nil }
	return e
}

func TestFlowEngineSignup(t *testing.T) {
	params := SignupParams{
		Username:        "thom",
		Email:           "thom@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	}

	t.Run("Registers Then Verifies", func(t *testing.T) {
		accounts := &fakeAccounts{}
		engine := NewFlowEngine(accounts, nil)

		err := engine.Signup(context.Background(), nil, params, func() (string, error) { return "123456", nil })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(accounts.calls) != 2 || accounts.calls[0] != "register" || accounts.calls[1] != "verify-otp" {
			t.Errorf("unexpected call order %v", accounts.calls)
		}
	})

	t.Run("Password Mismatch Sends Nothing", func(t *testing.T) {
		accounts := &fakeAccounts{}
		engine := NewFlowEngine(accounts, nil)

		bad := params
		bad.ConfirmPassword = "different"
		err := engine.Signup(context.Background(), nil, bad, func() (string, error) { return "123456", nil })
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if len(accounts.calls) != 0 {
			t.Errorf("expected zero requests, got %v", accounts.calls)
		}
	})

	t.Run("Empty OTP Stops Before Verification", func(t *testing.T) {
		accounts := &fakeAccounts{}
		engine := NewFlowEngine(accounts, nil)

		err := engine.Signup(context.Background(), nil, params, func() (string, error) { return "", nil })
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if len(accounts.calls) != 1 || accounts.calls[0] != "register" {
			t.Errorf("expected only the register call, got %v", accounts.calls)
		}
	})

	t.Run("Registration Failure Surfaces", func(t *testing.T) {
		accounts := &fakeAccounts{fail: map[string]error{"register": errors.New("email taken")}}
		engine := NewFlowEngine(accounts, nil)

		err := engine.Signup(context.Background(), nil, params, func() (string, error) { return "123456", nil })
		if err == nil {
			t.Fatal("expected an error")
		}
		if len(accounts.calls) != 1 {
			t.Errorf("expected no verification after failed registration, got %v", accounts.calls)
		}
	})
}

func TestFlowEngineResetPassword(t *testing.T) {
	params := ResetParams{
		Email:           "thom@example.com",
		NewPassword:     "newsecret",
		ConfirmPassword: "newsecret",
	}

	t.Run("Walks The Chain In Order", func(t *testing.T) {
		accounts := &fakeAccounts{}
		engine := NewFlowEngine(accounts, nil)

		err := engine.ResetPassword(context.Background(), nil, params, func() (string, error) { return "654321", nil })
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"forgot-password", "reset-otp", "reset-password"}
		if len(accounts.calls) != len(want) {
			t.Fatalf("expected %v, got %v", want, accounts.calls)
		}
		for i := range want {
			if accounts.calls[i] != want[i] {
				t.Errorf("step %d: expected %s, got %s", i, want[i], accounts.calls[i])
			}
		}
	})

	t.Run("Password Mismatch Sends Nothing", func(t *testing.T) {
		accounts := &fakeAccounts{}
		engine := NewFlowEngine(accounts, nil)

		bad := params
		bad.ConfirmPassword = "other"
		err := engine.ResetPassword(context.Background(), nil, bad, func() (string, error) { return "654321", nil })
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if len(accounts.calls) != 0 {
			t.Errorf("expected zero requests, got %v", accounts.calls)
		}
	})

	t.Run("Rejected Code Stops The Chain", func(t *testing.T) {
		accounts := &fakeAccounts{fail: map[string]error{"reset-otp": errors.New("invalid code")}}
		engine := NewFlowEngine(accounts, nil)

		err := engine.ResetPassword(context.Background(), nil, params, func() (string, error) { return "000000", nil })
		if err == nil {
			t.Fatal("expected an error")
		}
		if len(accounts.calls) != 2 {
			t.Errorf("expected the chain to stop at reset-otp, got %v", accounts.calls)
		}
	})
}

func TestFlowEngineDonate(t *testing.T) {
	t.Run("Verifies The Callback", func(t *testing.T) {
		donations := &fakeDonations{}
		engine := quietBrowser(NewFlowEngine(nil, donations))

		waiter := &fakeWaiter{callback: func() services.DonationCallback {
			return services.DonationCallback{
				Pidx:          "p1",
				TransactionID: "t1",
				Amount:        "50000",
				OrderID:       "order-1",
			}
		}}

		if err := engine.Donate(context.Background(), nil, 500, "order-1", waiter); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if donations.orderID != "order-1" {
			t.Errorf("expected initiation under the caller's order id, got %q", donations.orderID)
		}
		if donations.completed == nil || donations.completed.Pidx != "p1" {
			t.Errorf("expected completion with the callback parameters, got %+v", donations.completed)
		}
	})

	t.Run("Rejects A Foreign Order Id", func(t *testing.T) {
		donations := &fakeDonations{}
		engine := quietBrowser(NewFlowEngine(nil, donations))

		waiter := &fakeWaiter{callback: func() services.DonationCallback {
			return services.DonationCallback{Pidx: "p1", OrderID: "someone-elses-order"}
		}}

		err := engine.Donate(context.Background(), nil, 500, "order-1", waiter)
		if !errors.Is(err, shared.ErrPaymentFailed) {
			t.Errorf("expected ErrPaymentFailed, got %v", err)
		}
		if donations.completed != nil {
			t.Error("expected no completion request for a foreign order id")
		}
	})

	t.Run("Abandoned Payment Is Canceled", func(t *testing.T) {
		donations := &fakeDonations{}
		engine := quietBrowser(NewFlowEngine(nil, donations))

		waiter := &fakeWaiter{err: errors.New("context deadline exceeded")}
		err := engine.Donate(context.Background(), nil, 500, "order-1", waiter)
		if !errors.Is(err, shared.ErrPaymentCanceled) {
			t.Errorf("expected ErrPaymentCanceled, got %v", err)
		}
	})

	t.Run("Requires A Callback Server", func(t *testing.T) {
		engine := quietBrowser(NewFlowEngine(nil, &fakeDonations{}))
		err := engine.Donate(context.Background(), nil, 500, "order-1", nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Requires An Order Id", func(t *testing.T) {
		donations := &fakeDonations{}
		engine := quietBrowser(NewFlowEngine(nil, donations))

		err := engine.Donate(context.Background(), nil, 500, "", &fakeWaiter{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if donations.orderID != "" {
			t.Error("expected no initiation without an order id")
		}
	})
}
