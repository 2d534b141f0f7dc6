package entities

import "time"

// QuoteStatus represents the lifecycle of a quote.
//
// Domain notes:
//   - Progression is forward-only: draft -> sent -> paid.
//   - "sent" makes the quote publicly readable and eligible for checkout.
//   - "paid" is terminal and is only set from a verified provider notification.

type QuoteStatus string

const (
	QuoteStatusDraft QuoteStatus = "draft"
	QuoteStatusSent  QuoteStatus = "sent"
	QuoteStatusPaid  QuoteStatus = "paid"
)

// Valid reports whether s is one of the known lifecycle statuses.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next respects the
// forward-only lifecycle. Re-asserting the current status is allowed.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case QuoteStatusDraft:
		return next == QuoteStatusSent || next == QuoteStatusPaid
	case QuoteStatusSent:
		return next == QuoteStatusPaid
	}
	return false
}

// MaxLineItems bounds how many line items a single quote may hold.
const MaxLineItems = 10

// LineItem is a value object owned by its quote; it is never addressed
// outside the parent.
//
// TotalCents is derived as Quantity * UnitPriceCents and is recomputed
// server-side whenever the item changes.
type LineItem struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
}

// Quote is the itemized price quote persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (user_id-index): user_id
//
// Monetary representation:
//   - Every amount is an integer count of minor currency units (cents).
//     Floating point never touches money in this model.

type Quote struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	ClientName        string      `json:"client_name"`
	ClientEmail       string      `json:"client_email,omitempty"`
	JobDescription    string      `json:"job_description"`
	LineItems         []LineItem  `json:"line_items"`
	TotalCents        int64       `json:"total_cents"`
	Status            QuoteStatus `json:"status"`
	CheckoutSessionID string      `json:"checkout_session_id,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// ComputeTotals recomputes every line total and the quote total from
// quantity and unit price. Client-supplied totals are overwritten
// unconditionally.
func (q *Quote) ComputeTotals() {
	var total int64
	for i := range q.LineItems {
		q.LineItems[i].TotalCents = q.LineItems[i].Quantity * q.LineItems[i].UnitPriceCents
		total += q.LineItems[i].TotalCents
	}
	q.TotalCents = total
}

// PubliclyVisible reports whether the quote may be served to
// unauthenticated readers. Drafts are owner-only.
func (q Quote) PubliclyVisible() bool {
	return q.Status == QuoteStatusSent || q.Status == QuoteStatusPaid
}
