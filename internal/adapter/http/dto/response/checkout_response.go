package response

import "quoteflow/internal/usecase/interfaces"

// CheckoutResponse hands the payer the hosted payment page to redirect to.
type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

func FromCheckoutSession(s interfaces.CheckoutSession) CheckoutResponse {
	return CheckoutResponse{
		SessionID: s.ID,
		URL:       s.URL,
	}
}
