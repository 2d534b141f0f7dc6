package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"quoteflow/internal/domain/entities"
	"quoteflow/internal/usecase/interfaces"
	mock_interfaces "quoteflow/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

// fakeQuoteRepo mimics the conditional-write semantics of the DynamoDB
// repository closely enough to drive full lifecycle scenarios in memory.
type fakeQuoteRepo struct {
	mu     sync.Mutex
	quotes map[string]entities.Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[string]entities.Quote)}
}

func (r *fakeQuoteRepo) Create(_ context.Context, q entities.Quote) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[q.ID] = q
	return q, nil
}

func (r *fakeQuoteRepo) GetByID(_ context.Context, id string) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quotes[id], nil
}

func (r *fakeQuoteRepo) ListByUserID(_ context.Context, userID string) ([]entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Quote
	for _, q := range r.quotes {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuoteRepo) UpdateDraft(_ context.Context, userID string, q entities.Quote) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.quotes[q.ID]
	if !ok || existing.UserID != userID || existing.Status != entities.QuoteStatusDraft {
		return entities.Quote{}, nil
	}
	r.quotes[q.ID] = q
	return q, nil
}

func (r *fakeQuoteRepo) MarkSent(_ context.Context, userID, id string) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.quotes[id]
	if !ok || existing.UserID != userID || existing.Status == entities.QuoteStatusPaid {
		return entities.Quote{}, nil
	}
	existing.Status = entities.QuoteStatusSent
	r.quotes[id] = existing
	return existing, nil
}

func (r *fakeQuoteRepo) MarkPaid(_ context.Context, id, checkoutSessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.quotes[id]
	if !ok || existing.Status != entities.QuoteStatusSent {
		return false, nil
	}
	existing.Status = entities.QuoteStatusPaid
	existing.CheckoutSessionID = checkoutSessionID
	r.quotes[id] = existing
	return true, nil
}

func (r *fakeQuoteRepo) SetCheckoutSession(_ context.Context, id, checkoutSessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.quotes[id]
	if !ok {
		return errors.New("not found")
	}
	existing.CheckoutSessionID = checkoutSessionID
	r.quotes[id] = existing
	return nil
}

func (r *fakeQuoteRepo) Delete(_ context.Context, userID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.quotes[id]
	if !ok || existing.UserID != userID || existing.Status == entities.QuoteStatusPaid {
		return false, nil
	}
	delete(r.quotes, id)
	return true, nil
}

var _ interfaces.IQuoteRepository = (*fakeQuoteRepo)(nil)

func TestQuoteLifecycle(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newFakeQuoteRepo()
	gw := mock_interfaces.NewMockICheckoutGateway(ctrl)
	quotes := NewQuoteUseCase(repo)
	checkout := NewCheckoutUseCase(repo, nil, gw, "http://site")

	created, err := quotes.Create(ctx, "user-1", QuoteInput{
		ClientName:     "Acme Co",
		ClientEmail:    "billing@acme.test",
		JobDescription: "Kitchen remodel",
		LineItems: []LineItemInput{
			{Description: "Design", Quantity: 2, UnitPriceCents: 15000},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != entities.QuoteStatusDraft || created.TotalCents != 30000 {
		t.Fatalf("unexpected created quote: %+v", created)
	}

	// Drafts never leak on the public route.
	if _, err := quotes.GetPublicByID(ctx, created.ID); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected draft hidden, got %v", err)
	}

	// Payment cannot start before the quote is sent.
	if _, err := checkout.RequestPaymentSession(ctx, created.ID); !errors.Is(err, ErrQuoteNotPayable) {
		t.Fatalf("expected ErrQuoteNotPayable, got %v", err)
	}

	sent, err := quotes.MarkSent(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if sent.Status != entities.QuoteStatusSent {
		t.Fatalf("expected sent, got %s", sent.Status)
	}

	// The sent quote is now publicly readable.
	if _, err := quotes.GetPublicByID(ctx, created.ID); err != nil {
		t.Fatalf("public get: %v", err)
	}

	// And no longer editable.
	if _, err := quotes.Update(ctx, "user-1", created.ID, QuoteInput{
		ClientName:     "Acme Co",
		JobDescription: "Kitchen remodel",
		LineItems:      []LineItemInput{{Description: "Design", Quantity: 1, UnitPriceCents: 100}},
	}); !errors.Is(err, ErrQuoteNotEditable) {
		t.Fatalf("expected ErrQuoteNotEditable, got %v", err)
	}

	gw.EXPECT().CreateSession(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(interfaces.CheckoutSession{ID: "cs_1", URL: "http://pay/cs_1", Open: true}, nil)
	sess, err := checkout.RequestPaymentSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("request session: %v", err)
	}
	if sess.ID != "cs_1" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	notification := interfaces.PaymentNotification{EventID: "evt_1", QuoteID: created.ID, SessionID: "cs_1", Paid: true}
	gw.EXPECT().VerifyNotification(gomock.Any(), gomock.Any(), gomock.Any()).Return(notification, nil).Times(2)

	applied, err := checkout.ConfirmPayment(ctx, []byte("{}"), http.Header{})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !applied {
		t.Fatalf("expected first confirmation to apply")
	}

	// Redelivery of the same notification must change nothing.
	applied, err = checkout.ConfirmPayment(ctx, []byte("{}"), http.Header{})
	if err != nil {
		t.Fatalf("confirm redelivery: %v", err)
	}
	if applied {
		t.Fatalf("expected redelivery to be a no-op")
	}

	paid, err := quotes.GetByID(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if paid.Status != entities.QuoteStatusPaid || paid.CheckoutSessionID != "cs_1" {
		t.Fatalf("unexpected final quote: %+v", paid)
	}

	// Paid quotes can be neither re-sent nor deleted.
	if _, err := quotes.MarkSent(ctx, "user-1", created.ID); !errors.Is(err, ErrQuoteAlreadyPaid) {
		t.Fatalf("expected ErrQuoteAlreadyPaid, got %v", err)
	}
	if err := quotes.Delete(ctx, "user-1", created.ID); !errors.Is(err, ErrQuotePaidDelete) {
		t.Fatalf("expected ErrQuotePaidDelete, got %v", err)
	}
}

// Status must never move backwards no matter how operations interleave.
func TestQuoteStatusMonotonicity(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQuoteRepo()
	quotes := NewQuoteUseCase(repo)

	created, err := quotes.Create(ctx, "user-1", QuoteInput{
		ClientName:     "Acme Co",
		JobDescription: "Roof repair",
		LineItems:      []LineItemInput{{Description: "Roofing", Quantity: 1, UnitPriceCents: 80000}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := quotes.MarkSent(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if applied, err := repo.MarkPaid(ctx, created.ID, "cs_1"); err != nil || !applied {
		t.Fatalf("mark paid: applied=%v err=%v", applied, err)
	}

	rank := func(s entities.QuoteStatus) int {
		switch s {
		case entities.QuoteStatusDraft:
			return 0
		case entities.QuoteStatusSent:
			return 1
		default:
			return 2
		}
	}

	// Replay every mutating operation; none may lower the rank.
	before, _ := repo.GetByID(ctx, created.ID)
	quotes.MarkSent(ctx, "user-1", created.ID)
	quotes.Update(ctx, "user-1", created.ID, QuoteInput{
		ClientName:     "Acme Co",
		JobDescription: "Roof repair",
		LineItems:      []LineItemInput{{Description: "Roofing", Quantity: 1, UnitPriceCents: 1}},
	})
	repo.MarkPaid(ctx, created.ID, "cs_2")
	quotes.Delete(ctx, "user-1", created.ID)

	after, _ := repo.GetByID(ctx, created.ID)
	if after.ID == "" {
		t.Fatalf("paid quote must not be deletable")
	}
	if rank(after.Status) < rank(before.Status) {
		t.Fatalf("status moved backwards: %s -> %s", before.Status, after.Status)
	}
	if after.CheckoutSessionID != "cs_1" {
		t.Fatalf("paid session reference must be stable, got %s", after.CheckoutSessionID)
	}
}
