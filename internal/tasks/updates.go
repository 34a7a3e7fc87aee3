package tasks

import (
	"fmt"

	"github.com/desertthunder/geet/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Register Phase = iota
	VerifyOTP
	ForgotPassword
	ResetOTP
	ResetPassword
	InitiatePayment
	AwaitPayment
	VerifyPayment
	FetchArtist
	FetchAlbums
	ExportAlbum
)

func (p Phase) String() string {
	switch p {
	case Register:
		return "register"
	case VerifyOTP:
		return "verify_otp"
	case ForgotPassword:
		return "forgot_password"
	case ResetOTP:
		return "reset_otp"
	case ResetPassword:
		return "reset_password"
	case InitiatePayment:
		return "initiate_payment"
	case AwaitPayment:
		return "await_payment"
	case VerifyPayment:
		return "verify_payment"
	case FetchArtist:
		return "fetch_artist"
	case FetchAlbums:
		return "fetch_albums"
	case ExportAlbum:
		return "export_album"
	default:
		return ""
	}
}

func phaseUpdate(phase Phase, step, total int, message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: message,
	}
}

func fetchArtistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching artist %s...", name),
	}
}

func fetchAlbumsUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAlbums,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d albums for %s", count, name),
	}
}

func exportingAlbumUpdate(step, total int, ref models.AlbumRef) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, ref.Name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func awaitPaymentUpdate(paymentURL string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AwaitPayment,
		Step:    2,
		Total:   3,
		Message: "Waiting for payment confirmation in the browser...",
		Data:    paymentURL,
	}
}
