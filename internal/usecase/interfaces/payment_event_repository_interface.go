package interfaces

import (
	"context"

	"quoteflow/internal/domain/entities"
)

// IPaymentEventRepository persists verified provider notifications for
// reconciliation and support lookups.

type IPaymentEventRepository interface {
	Create(ctx context.Context, e entities.PaymentEvent) (entities.PaymentEvent, error)
	ListByQuoteID(ctx context.Context, quoteID string) ([]entities.PaymentEvent, error)
}
