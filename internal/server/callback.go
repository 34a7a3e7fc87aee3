package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/geet/internal/services"
)

// CallbackResult contains the result of a payment gateway redirect.
type CallbackResult struct {
	Callback services.DonationCallback
	err      error
}

func (c *CallbackResult) Error() error {
	return c.err
}

// DonationHandler handles the Khalti return redirect after payment.
// Implements the Handler interface for registration with a Router, and
// tasks.CallbackWaiter for the donation flow.
type DonationHandler struct {
	orderID     string
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewDonationHandler creates a handler expecting the redirect for the given
// purchase order id. Redirects for other orders are rejected.
func NewDonationHandler(orderID string) *DonationHandler {
	return &DonationHandler{
		orderID:    orderID,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *DonationHandler) Routes() []string {
	return []string{"/complete-donation"}
}

// ServeHTTP handles the gateway redirect.
//
// Captures pidx, transaction_id, amount, and purchase_order_id from the query
// and sends them through the result channel.
func (h *DonationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()

	if h.orderID != "" && query.Get("purchase_order_id") != h.orderID {
		err := fmt.Errorf("unexpected purchase order id")
		h.Send(CallbackResult{err: err})
		http.Error(w, "Unexpected purchase order", http.StatusBadRequest)
		return
	}

	pidx := query.Get("pidx")
	if pidx == "" {
		err := fmt.Errorf("payment failed or was canceled")
		h.Send(CallbackResult{err: err})
		http.Error(w, "Payment not completed", http.StatusBadRequest)
		return
	}

	h.Send(CallbackResult{Callback: services.DonationCallback{
		Pidx:          pidx,
		TransactionID: query.Get("transaction_id"),
		Amount:        query.Get("amount"),
		OrderID:       query.Get("purchase_order_id"),
	}})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Donation Received</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #5C2D91; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Thank You</h1>
        <p>Your donation is being verified. You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send sends the callback result through the channel (only once).
func (h *DonationHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving the gateway redirect.
//
// Channel will receive exactly one result and then be closed.
func (h *DonationHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

// Wait blocks until the gateway redirects back or the context ends.
func (h *DonationHandler) Wait(ctx context.Context) (services.DonationCallback, error) {
	select {
	case <-ctx.Done():
		return services.DonationCallback{}, ctx.Err()
	case result, ok := <-h.resultChan:
		if !ok {
			return services.DonationCallback{}, fmt.Errorf("callback server closed")
		}
		if result.err != nil {
			return services.DonationCallback{}, result.err
		}
		return result.Callback, nil
	}
}
