package interfaces

import (
	"context"

	"quoteflow/internal/domain/entities"
)

// IQuoteRepository abstracts DynamoDB persistence for Quote.
//
// Conventions:
//   - A zero-value entities.Quote{} result means "no row matched"; genuine
//     I/O failures are returned as errors.
//   - Conditional operations are atomic compare-and-set at the storage
//     layer, never read-then-write in application code.

type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	ListByUserID(ctx context.Context, userID string) ([]entities.Quote, error)

	// UpdateDraft persists the mutable fields iff the row is still owned by
	// userID and still in draft status. Zero-value result means no row matched.
	UpdateDraft(ctx context.Context, userID string, q entities.Quote) (entities.Quote, error)

	// MarkSent sets status=sent iff the row is owned by userID and the
	// current status is not paid. Zero-value result means no row matched.
	MarkSent(ctx context.Context, userID, id string) (entities.Quote, error)

	// MarkPaid sets status=paid and records the checkout session reference
	// iff the current status is exactly sent. changed=false with a nil
	// error is a successful no-op, which makes notification redelivery safe.
	MarkPaid(ctx context.Context, id, checkoutSessionID string) (changed bool, err error)

	// SetCheckoutSession records the session reference on an existing quote.
	SetCheckoutSession(ctx context.Context, id, checkoutSessionID string) error

	// Delete removes the quote iff it is owned by userID and not paid.
	Delete(ctx context.Context, userID, id string) (deleted bool, err error)
}
