package response

import (
	"time"

	"quoteflow/internal/domain/entities"
)

type LineItemResponse struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
}

type QuoteResponse struct {
	ID             string             `json:"id"`
	ClientName     string             `json:"client_name"`
	ClientEmail    string             `json:"client_email,omitempty"`
	JobDescription string             `json:"job_description"`
	LineItems      []LineItemResponse `json:"line_items"`
	TotalCents     int64              `json:"total_cents"`
	Status         string             `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	items := make([]LineItemResponse, 0, len(q.LineItems))
	for _, item := range q.LineItems {
		items = append(items, LineItemResponse{
			ID:             item.ID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	return QuoteResponse{
		ID:             q.ID,
		ClientName:     q.ClientName,
		ClientEmail:    q.ClientEmail,
		JobDescription: q.JobDescription,
		LineItems:      items,
		TotalCents:     q.TotalCents,
		Status:         string(q.Status),
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

func FromQuotes(quotes []entities.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, FromQuote(q))
	}
	return out
}
