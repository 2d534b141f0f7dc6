package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"quoteflow/internal/domain/entities"
	"quoteflow/internal/usecase/interfaces"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

var (
	ErrMissingStripeSecretKey = errors.New("missing STRIPE_SECRET_KEY")
	ErrMissingStripeSignature = errors.New("missing Stripe-Signature header")
)

// StripeGateway implements hosted checkout through Stripe Checkout
// Sessions. The quote id travels in session metadata so the webhook can
// correlate the completed payment back to the row.

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

var _ interfaces.ICheckoutGateway = (*StripeGateway)(nil)

func NewStripeGateway(secretKey, webhookSecret string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, ErrMissingStripeSecretKey
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}, nil
}

func (g *StripeGateway) Provider() string {
	return "stripe"
}

func (g *StripeGateway) CreateSession(ctx context.Context, q entities.Quote, successURL, cancelURL string) (interfaces.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(q.LineItems))
	for _, item := range q.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(item.UnitPriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Description),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
	}
	params.Context = ctx
	if q.ClientEmail != "" {
		params.CustomerEmail = stripe.String(q.ClientEmail)
	}
	params.AddMetadata("quote_id", q.ID)
	params.AddMetadata("user_id", q.UserID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return interfaces.CheckoutSession{}, err
	}
	return toCheckoutSession(sess), nil
}

func (g *StripeGateway) GetSession(ctx context.Context, id string) (interfaces.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := g.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return interfaces.CheckoutSession{}, err
	}
	return toCheckoutSession(sess), nil
}

// VerifyNotification authenticates the webhook body against the signing
// secret. Anything that fails verification is rejected before any state
// is touched.
func (g *StripeGateway) VerifyNotification(_ context.Context, payload []byte, header http.Header) (interfaces.PaymentNotification, error) {
	sig := header.Get("Stripe-Signature")
	if sig == "" {
		return interfaces.PaymentNotification{}, ErrMissingStripeSignature
	}

	event, err := webhook.ConstructEvent(payload, sig, g.webhookSecret)
	if err != nil {
		return interfaces.PaymentNotification{}, err
	}
	if event.Type != "checkout.session.completed" {
		// Verified but irrelevant; acknowledged upstream as a no-op.
		return interfaces.PaymentNotification{EventID: event.ID, Raw: event.Data.Raw}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return interfaces.PaymentNotification{}, err
	}
	return interfaces.PaymentNotification{
		EventID:   event.ID,
		QuoteID:   sess.Metadata["quote_id"],
		SessionID: sess.ID,
		Paid:      sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Raw:       event.Data.Raw,
	}, nil
}

func toCheckoutSession(sess *stripe.CheckoutSession) interfaces.CheckoutSession {
	return interfaces.CheckoutSession{
		ID:   sess.ID,
		URL:  sess.URL,
		Open: sess.Status == stripe.CheckoutSessionStatusOpen,
	}
}
