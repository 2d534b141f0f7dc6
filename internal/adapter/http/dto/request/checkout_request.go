package request

// CheckoutRequest asks for a hosted payment page for a sent quote. It is
// submitted by the unauthenticated payer from the public quote view.
type CheckoutRequest struct {
	QuoteID string `json:"quote_id" binding:"required"`
}
