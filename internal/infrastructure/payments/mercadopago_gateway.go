package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"quoteflow/internal/domain/entities"
	"quoteflow/internal/usecase/interfaces"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

var (
	ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrInvalidMercadoPagoWebhook     = errors.New("invalid mercado pago webhook payload")
)

// MercadoPagoGateway implements hosted checkout through Checkout Pro
// preferences. The quote id travels in external_reference.
//
// Notification authenticity: the webhook body only names a payment id;
// the payment itself is fetched back from the API with our credentials,
// so a forged body can at worst reference a real, already-approved
// payment of ours.

type MercadoPagoGateway struct {
	preferences preference.Client
	payments    payment.Client
}

var _ interfaces.ICheckoutGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		return nil, ErrMissingMercadoPagoAccessToken
	}
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}
	return &MercadoPagoGateway{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

func (g *MercadoPagoGateway) Provider() string {
	return "mercadopago"
}

func (g *MercadoPagoGateway) CreateSession(ctx context.Context, q entities.Quote, successURL, cancelURL string) (interfaces.CheckoutSession, error) {
	items := make([]preference.ItemRequest, 0, len(q.LineItems))
	for _, li := range q.LineItems {
		items = append(items, preference.ItemRequest{
			ID:       li.ID,
			Title:    li.Description,
			Quantity: int(li.Quantity),
			// The SDK takes major units; cents are divided only at this
			// provider boundary, never inside the model.
			UnitPrice:  float64(li.UnitPriceCents) / 100,
			CurrencyID: "USD",
		})
	}

	req := preference.Request{
		Items:             items,
		ExternalReference: q.ID,
		BackURLs: &preference.BackURLsRequest{
			Success: successURL,
			Failure: cancelURL,
			Pending: cancelURL,
		},
	}
	resp, err := g.preferences.Create(ctx, req)
	if err != nil {
		return interfaces.CheckoutSession{}, err
	}
	return interfaces.CheckoutSession{ID: resp.ID, URL: resp.InitPoint, Open: true}, nil
}

func (g *MercadoPagoGateway) GetSession(ctx context.Context, id string) (interfaces.CheckoutSession, error) {
	resp, err := g.preferences.Get(ctx, id)
	if err != nil {
		return interfaces.CheckoutSession{}, err
	}
	return interfaces.CheckoutSession{ID: resp.ID, URL: resp.InitPoint, Open: true}, nil
}

func (g *MercadoPagoGateway) VerifyNotification(ctx context.Context, payload []byte, _ http.Header) (interfaces.PaymentNotification, error) {
	var note struct {
		Type string `json:"type"`
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &note); err != nil {
		return interfaces.PaymentNotification{}, ErrInvalidMercadoPagoWebhook
	}
	if note.Type != "payment" || note.Data.ID == "" {
		// Verified shape but not a payment event; no-op upstream.
		return interfaces.PaymentNotification{Raw: payload}, nil
	}

	paymentID, err := strconv.Atoi(note.Data.ID)
	if err != nil {
		return interfaces.PaymentNotification{}, ErrInvalidMercadoPagoWebhook
	}

	p, err := g.payments.Get(ctx, paymentID)
	if err != nil {
		return interfaces.PaymentNotification{}, err
	}
	return interfaces.PaymentNotification{
		EventID:   "mp-" + note.Data.ID,
		QuoteID:   p.ExternalReference,
		SessionID: strconv.Itoa(p.ID),
		Paid:      p.Status == "approved",
		Raw:       payload,
	}, nil
}
