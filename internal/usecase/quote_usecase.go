package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"quoteflow/internal/domain/entities"
	"quoteflow/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidQuoteID   = errors.New("invalid quote id")
	ErrQuoteNotFound    = errors.New("quote not found")
	ErrQuoteNotEditable = errors.New("only draft quotes can be edited")
	ErrQuotePaidDelete  = errors.New("a paid quote cannot be deleted")
	ErrQuoteAlreadyPaid = errors.New("cannot send a paid quote")
	ErrQuoteNoLineItems = errors.New("must have at least one line item")
	ErrQuoteZeroTotal   = errors.New("total must be greater than zero")
)

// ValidationError reports the first failing field of a candidate payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// LineItemInput is a candidate line item. Totals are never read from input.
type LineItemInput struct {
	ID             string
	Description    string
	Quantity       int64
	UnitPriceCents int64
}

// QuoteInput is the candidate quote payload for create and update.
type QuoteInput struct {
	ClientName     string
	ClientEmail    string
	JobDescription string
	Status         entities.QuoteStatus
	LineItems      []LineItemInput
}

// IQuoteUseCase exposes the quote lifecycle operations.
//
// Ownership failures and missing rows are deliberately indistinguishable:
// both surface as ErrQuoteNotFound so callers cannot probe for existence.

type IQuoteUseCase interface {
	Create(ctx context.Context, userID string, in QuoteInput) (entities.Quote, error)
	Update(ctx context.Context, userID, quoteID string, in QuoteInput) (entities.Quote, error)
	GetByID(ctx context.Context, userID, quoteID string) (entities.Quote, error)
	ListByOwner(ctx context.Context, userID string) ([]entities.Quote, error)
	GetPublicByID(ctx context.Context, quoteID string) (entities.Quote, error)
	MarkSent(ctx context.Context, userID, quoteID string) (entities.Quote, error)
	Delete(ctx context.Context, userID, quoteID string) error
}

type QuoteUseCase struct {
	repo interfaces.IQuoteRepository
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IQuoteRepository) *QuoteUseCase {
	return &QuoteUseCase{repo: repo}
}

func (u *QuoteUseCase) Create(ctx context.Context, userID string, in QuoteInput) (entities.Quote, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entities.Quote{}, ErrNotAuthenticated
	}
	if err := validateQuoteInput(in); err != nil {
		return entities.Quote{}, err
	}
	// New quotes always start in draft; requesting sent/paid is rejected
	// rather than silently coerced.
	if in.Status != "" && in.Status != entities.QuoteStatusDraft {
		return entities.Quote{}, &ValidationError{Field: "status", Reason: "new quotes must be created as draft"}
	}

	now := time.Now().UTC()
	q := entities.Quote{
		ID:             uuid.NewString(),
		UserID:         userID,
		ClientName:     strings.TrimSpace(in.ClientName),
		ClientEmail:    strings.TrimSpace(in.ClientEmail),
		JobDescription: strings.TrimSpace(in.JobDescription),
		LineItems:      buildLineItems(in.LineItems),
		Status:         entities.QuoteStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	q.ComputeTotals()
	return u.repo.Create(ctx, q)
}

func (u *QuoteUseCase) Update(ctx context.Context, userID, quoteID string, in QuoteInput) (entities.Quote, error) {
	existing, err := u.getOwned(ctx, userID, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	// Hard guard, not a hidden button: a quote stops being editable the
	// moment it leaves draft.
	if existing.Status != entities.QuoteStatusDraft {
		return entities.Quote{}, ErrQuoteNotEditable
	}
	if err := validateQuoteInput(in); err != nil {
		return entities.Quote{}, err
	}

	q := existing
	q.ClientName = strings.TrimSpace(in.ClientName)
	q.ClientEmail = strings.TrimSpace(in.ClientEmail)
	q.JobDescription = strings.TrimSpace(in.JobDescription)
	q.LineItems = buildLineItems(in.LineItems)
	q.UpdatedAt = time.Now().UTC()
	q.ComputeTotals()

	updated, err := u.repo.UpdateDraft(ctx, existing.UserID, q)
	if err != nil {
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		// The row left draft between our read and the conditional write.
		return entities.Quote{}, ErrQuoteNotEditable
	}
	return updated, nil
}

func (u *QuoteUseCase) GetByID(ctx context.Context, userID, quoteID string) (entities.Quote, error) {
	return u.getOwned(ctx, userID, quoteID)
}

func (u *QuoteUseCase) ListByOwner(ctx context.Context, userID string) ([]entities.Quote, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return u.repo.ListByUserID(ctx, userID)
}

// GetPublicByID serves the shareable quote link. Drafts are never visible
// to non-owners, so they answer exactly like a missing row.
func (u *QuoteUseCase) GetPublicByID(ctx context.Context, quoteID string) (entities.Quote, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}
	q, err := u.repo.GetByID(ctx, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" || !q.PubliclyVisible() {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

// MarkSent evaluates the send guards in order; the first failure wins.
func (u *QuoteUseCase) MarkSent(ctx context.Context, userID, quoteID string) (entities.Quote, error) {
	q, err := u.getOwned(ctx, userID, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.Status == entities.QuoteStatusPaid {
		return entities.Quote{}, ErrQuoteAlreadyPaid
	}
	if len(q.LineItems) == 0 {
		return entities.Quote{}, ErrQuoteNoLineItems
	}
	if q.TotalCents <= 0 {
		return entities.Quote{}, ErrQuoteZeroTotal
	}

	// Conditional on status <> paid at the row, so a racing payment
	// confirmation can never be clobbered back to sent.
	updated, err := u.repo.MarkSent(ctx, q.UserID, q.ID)
	if err != nil {
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		return entities.Quote{}, ErrQuoteAlreadyPaid
	}
	return updated, nil
}

func (u *QuoteUseCase) Delete(ctx context.Context, userID, quoteID string) error {
	q, err := u.getOwned(ctx, userID, quoteID)
	if err != nil {
		return err
	}
	if q.Status == entities.QuoteStatusPaid {
		return ErrQuotePaidDelete
	}

	deleted, err := u.repo.Delete(ctx, q.UserID, q.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrQuotePaidDelete
	}
	return nil
}

func (u *QuoteUseCase) getOwned(ctx context.Context, userID, quoteID string) (entities.Quote, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entities.Quote{}, ErrNotAuthenticated
	}
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}

	q, err := u.repo.GetByID(ctx, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" || q.UserID != userID {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func validateQuoteInput(in QuoteInput) error {
	if strings.TrimSpace(in.ClientName) == "" {
		return &ValidationError{Field: "client_name", Reason: "client name is required"}
	}
	if email := strings.TrimSpace(in.ClientEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return &ValidationError{Field: "client_email", Reason: "invalid email address"}
		}
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return &ValidationError{Field: "job_description", Reason: "job description is required"}
	}
	if len(in.LineItems) == 0 {
		return &ValidationError{Field: "line_items", Reason: "at least one line item is required"}
	}
	if len(in.LineItems) > entities.MaxLineItems {
		return &ValidationError{Field: "line_items", Reason: fmt.Sprintf("maximum %d line items allowed", entities.MaxLineItems)}
	}
	for i, item := range in.LineItems {
		if strings.TrimSpace(item.Description) == "" {
			return &ValidationError{Field: fmt.Sprintf("line_items[%d].description", i), Reason: "description is required"}
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: fmt.Sprintf("line_items[%d].quantity", i), Reason: "quantity must be at least 1"}
		}
		if item.UnitPriceCents < 0 {
			return &ValidationError{Field: fmt.Sprintf("line_items[%d].unit_price_cents", i), Reason: "unit price must not be negative"}
		}
	}
	return nil
}

func buildLineItems(items []LineItemInput) []entities.LineItem {
	out := make([]entities.LineItem, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, entities.LineItem{
			ID:             id,
			Description:    strings.TrimSpace(item.Description),
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return out
}
