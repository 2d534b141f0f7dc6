package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"quoteflow/internal/domain/entities"
	"quoteflow/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrSuggestionNotAvailable = errors.New("suggestions not available")
	ErrEmptyJobDescription    = errors.New("job description is required")
)

// SuggestionError aggregates every violation found in an AI response.
// Partial acceptance is never allowed: one bad item rejects the whole set.
type SuggestionError struct {
	Reasons []string
}

func (e *SuggestionError) Error() string {
	return "invalid suggestion response: " + strings.Join(e.Reasons, "; ")
}

// ISuggestionUseCase turns a free-text job description into candidate line
// items via the completion collaborator.

type ISuggestionUseCase interface {
	SuggestLineItems(ctx context.Context, jobDescription string) ([]entities.LineItem, error)
}

type SuggestionUseCase struct {
	client interfaces.ICompletionClient
}

var _ ISuggestionUseCase = (*SuggestionUseCase)(nil)

func NewSuggestionUseCase(client interfaces.ICompletionClient) *SuggestionUseCase {
	return &SuggestionUseCase{client: client}
}

func (u *SuggestionUseCase) SuggestLineItems(ctx context.Context, jobDescription string) ([]entities.LineItem, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, ErrEmptyJobDescription
	}
	if u.client == nil {
		return nil, ErrSuggestionNotAvailable
	}

	raw, err := u.client.Complete(ctx, buildLineItemsPrompt(jobDescription))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuggestionNotAvailable, err)
	}

	parsed, err := parseSuggestedLineItems(raw)
	if err != nil {
		return nil, err
	}

	items := make([]entities.LineItem, 0, len(parsed))
	for _, p := range parsed {
		qty, _ := p.Quantity.Int64()
		price, _ := p.UnitPrice.Int64()
		items = append(items, entities.LineItem{
			ID:             uuid.NewString(),
			Description:    strings.TrimSpace(p.Description),
			Quantity:       qty,
			UnitPriceCents: price,
			TotalCents:     qty * price,
		})
	}
	return items, nil
}

// buildLineItemsPrompt is the fixed instruction template sent alongside
// the job description.
func buildLineItemsPrompt(jobDescription string) string {
	return `You generate professional quote line items. Always return valid JSON arrays only.

Given this job description, suggest 3-5 line items with realistic prices in USD. Return ONLY a valid JSON array of objects with this exact structure:
[
  {
    "description": "Brief description of the work item",
    "quantity": 1,
    "unitPrice": 10000
  }
]

Important:
- unitPrice is in cents (e.g., 10000 = $100.00)
- quantity should be a reasonable number (usually 1, but can be more for items like "hours" or "square feet")
- Be realistic with pricing for the type of work described
- Return ONLY the JSON array, no markdown, no explanation

Job description: ` + jobDescription
}

type suggestedLineItem struct {
	Description string      `json:"description"`
	Quantity    json.Number `json:"quantity"`
	UnitPrice   json.Number `json:"unitPrice"`
}

var (
	fencedArrayRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")
	bareArrayRe   = regexp.MustCompile(`(?s)\[.*\]`)
)

// extractJSONArray pulls the candidate array out of untrusted completion
// text: fenced code block first, then the first bracketed substring, then
// the whole trimmed response.
func extractJSONArray(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if m := fencedArrayRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := bareArrayRe.FindString(trimmed); m != "" {
		return strings.TrimSpace(m)
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return trimmed
	}
	return ""
}

func parseSuggestedLineItems(raw string) ([]suggestedLineItem, error) {
	jsonStr := extractJSONArray(raw)
	if jsonStr == "" {
		return nil, &SuggestionError{Reasons: []string{"no JSON array found in response"}}
	}

	var items []suggestedLineItem
	if err := json.Unmarshal([]byte(jsonStr), &items); err != nil {
		return nil, &SuggestionError{Reasons: []string{fmt.Sprintf("malformed JSON: %v", err)}}
	}

	var reasons []string
	if len(items) == 0 {
		reasons = append(reasons, "at least one line item is required")
	}
	if len(items) > entities.MaxLineItems {
		reasons = append(reasons, fmt.Sprintf("too many line items (max %d)", entities.MaxLineItems))
	}
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			reasons = append(reasons, fmt.Sprintf("item %d: description cannot be empty", i))
		}
		if qty, err := item.Quantity.Int64(); err != nil || qty < 1 {
			reasons = append(reasons, fmt.Sprintf("item %d: quantity must be a positive integer", i))
		}
		if price, err := item.UnitPrice.Int64(); err != nil || price < 0 {
			reasons = append(reasons, fmt.Sprintf("item %d: unitPrice must be a non-negative integer", i))
		}
	}
	if len(reasons) > 0 {
		return nil, &SuggestionError{Reasons: reasons}
	}
	return items, nil
}
