package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not logged in")
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrSessionExpired   = fmt.Errorf("session expired")

	// Request errors
	ErrNetwork            = fmt.Errorf("network request failed")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("resource not found")

	// Input validation errors
	ErrValidation      = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrCanceled        = fmt.Errorf("action canceled")

	// Payment errors
	ErrPaymentFailed   = fmt.Errorf("payment verification failed")
	ErrPaymentCanceled = fmt.Errorf("payment canceled")
)
