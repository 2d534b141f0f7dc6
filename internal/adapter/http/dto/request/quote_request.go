package request

import (
	"quoteflow/internal/domain/entities"
	"quoteflow/internal/usecase"
)

type LineItemRequest struct {
	ID             string `json:"id"`
	Description    string `json:"description" binding:"required"`
	Quantity       int64  `json:"quantity" binding:"required,min=1"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"min=0"`
}

// QuoteRequest is the payload accepted by create and update. Totals are
// never part of the contract; the server recomputes them from quantity
// and unit price.
type QuoteRequest struct {
	ClientName     string            `json:"client_name" binding:"required"`
	ClientEmail    string            `json:"client_email"`
	JobDescription string            `json:"job_description" binding:"required"`
	Status         string            `json:"status"`
	LineItems      []LineItemRequest `json:"line_items" binding:"required,min=1,max=10,dive"`
}

func (r QuoteRequest) ToInput() usecase.QuoteInput {
	items := make([]usecase.LineItemInput, 0, len(r.LineItems))
	for _, item := range r.LineItems {
		items = append(items, usecase.LineItemInput{
			ID:             item.ID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return usecase.QuoteInput{
		ClientName:     r.ClientName,
		ClientEmail:    r.ClientEmail,
		JobDescription: r.JobDescription,
		Status:         entities.QuoteStatus(r.Status),
		LineItems:      items,
	}
}
