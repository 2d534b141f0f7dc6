package response

import (
	"encoding/json"
	"testing"
	"time"

	"quoteflow/internal/domain/entities"
)

func TestFromQuote(t *testing.T) {
	now := time.Now().UTC()
	q := entities.Quote{
		ID:                "q-1",
		UserID:            "user-1",
		ClientName:        "Acme Co",
		ClientEmail:       "billing@acme.test",
		JobDescription:    "Kitchen remodel",
		Status:            entities.QuoteStatusSent,
		TotalCents:        30000,
		CheckoutSessionID: "cs_1",
		CreatedAt:         now,
		UpdatedAt:         now,
		LineItems: []entities.LineItem{
			{ID: "li-1", Description: "Design", Quantity: 2, UnitPriceCents: 15000, TotalCents: 30000},
		},
	}

	res := FromQuote(q)

	if res.ID != "q-1" || res.Status != "sent" || res.TotalCents != 30000 {
		t.Fatalf("unexpected response: %+v", res)
	}
	if len(res.LineItems) != 1 || res.LineItems[0].TotalCents != 30000 {
		t.Fatalf("unexpected line items: %+v", res.LineItems)
	}

	// Neither the owner id nor the checkout session reference may appear on
	// the wire.
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["user_id"]; ok {
		t.Fatalf("response leaks user_id")
	}
	if _, ok := m["checkout_session_id"]; ok {
		t.Fatalf("response leaks checkout_session_id")
	}
}

func TestFromQuotesEmpty(t *testing.T) {
	if got := FromQuotes(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}
