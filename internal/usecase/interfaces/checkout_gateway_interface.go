package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"quoteflow/internal/domain/entities"
)

// CheckoutSession is the provider-side session handle returned to payers.
type CheckoutSession struct {
	ID   string
	URL  string
	Open bool
}

// PaymentNotification is an authenticated asynchronous provider
// notification, already signature-verified by the gateway.
type PaymentNotification struct {
	EventID   string
	QuoteID   string
	SessionID string
	Paid      bool
	Raw       json.RawMessage
}

// ICheckoutGateway abstracts the hosted checkout provider.
//
// The service must be able to:
//   - mint a session describing each line item plus correlation metadata
//   - re-check whether a previously minted session is still open
//   - authenticate an incoming notification before any state change

type ICheckoutGateway interface {
	Provider() string
	CreateSession(ctx context.Context, q entities.Quote, successURL, cancelURL string) (CheckoutSession, error)
	GetSession(ctx context.Context, id string) (CheckoutSession, error)
	VerifyNotification(ctx context.Context, payload []byte, header http.Header) (PaymentNotification, error)
}
