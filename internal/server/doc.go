// Package server provides HTTP routing, middleware, and the payment callback handler.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Donation Callback Handler
//
// [DonationHandler] receives the Khalti return redirect after the user pays in the browser.
//
// The handler checks the purchase order id, captures the gateway's query
// parameters (pidx, transaction_id, amount, purchase_order_id), and sends
// the result through a channel.
//
// It only processes one callback to prevent replay.
//
// # Current Usage
//
// When the user runs the donate command, a temporary HTTP server starts on the
// configured local address, handles the redirect, and shuts down after the
// payment is verified.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
