// Package tasks orchestrates multi-request flows against the review backend with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines three flows:
//
//  1. [Engine.Signup] : Account registration
//     - Creates the account on the backend
//     - Prompts for the OTP the backend emailed
//     - Confirms the code to activate the account
//
//  2. [Engine.ResetPassword] : Forgot-password chain
//     - Requests a reset code for the email
//     - Confirms the code, then sets the new password
//     - Client-side checks (missing fields, password mismatch) fail before any request
//
//  3. [Engine.Donate] : Khalti donation
//     - Initiates the payment and opens the payment URL in the browser
//     - Waits on the local callback server for the gateway redirect
//     - Verifies the captured parameters with the backend
//
// [FlowEngine.ExportDiscography] additionally exports an artist's albums and
// reviews to disk through a rate-limited worker pool, writing JSON, CSV,
// Markdown, or plain text plus a manifest.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [FlowEngine] implements [Engine] with dependencies on:
//   - [services.AccountService] : registration and OTP endpoints
//   - [services.DonationService] : Khalti initiate/complete endpoints
//   - [CallbackWaiter] : the local HTTP callback server (server.DonationHandler)
package tasks
