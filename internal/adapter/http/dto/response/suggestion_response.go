package response

import "quoteflow/internal/domain/entities"

// SuggestionResponse returns AI-drafted line items. They are candidates
// only; the quote endpoints re-validate whatever the user keeps.
type SuggestionResponse struct {
	LineItems []LineItemResponse `json:"line_items"`
}

func FromSuggestedLineItems(items []entities.LineItem) SuggestionResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, LineItemResponse{
			ID:             item.ID,
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	return SuggestionResponse{LineItems: out}
}
