package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quoteflow/internal/domain/entities"
	"quoteflow/internal/observability/logger"
	"quoteflow/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotAvailable = errors.New("payment not available")
	ErrQuoteNotPayable     = errors.New("quote is not available for payment")
	ErrInvalidNotification = errors.New("invalid payment notification")
)

// ICheckoutUseCase covers the payer-facing session flow and the
// provider-facing confirmation flow.
//
// Requested behavior:
//   - mint (or reuse) a checkout session for a sent quote, persisting the
//     session reference before the redirect URL is returned
//   - apply provider notifications idempotently via a conditional write

type ICheckoutUseCase interface {
	RequestPaymentSession(ctx context.Context, quoteID string) (interfaces.CheckoutSession, error)
	ConfirmPayment(ctx context.Context, payload []byte, header http.Header) (applied bool, err error)
}

type CheckoutUseCase struct {
	quoteRepo interfaces.IQuoteRepository
	eventRepo interfaces.IPaymentEventRepository
	gateway   interfaces.ICheckoutGateway
	siteURL   string
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(quoteRepo interfaces.IQuoteRepository, eventRepo interfaces.IPaymentEventRepository, gateway interfaces.ICheckoutGateway, siteURL string) *CheckoutUseCase {
	return &CheckoutUseCase{
		quoteRepo: quoteRepo,
		eventRepo: eventRepo,
		gateway:   gateway,
		siteURL:   strings.TrimRight(siteURL, "/"),
	}
}

func (u *CheckoutUseCase) RequestPaymentSession(ctx context.Context, quoteID string) (interfaces.CheckoutSession, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return interfaces.CheckoutSession{}, ErrInvalidQuoteID
	}
	if u.gateway == nil {
		return interfaces.CheckoutSession{}, ErrPaymentNotAvailable
	}

	q, err := u.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return interfaces.CheckoutSession{}, err
	}
	if q.ID == "" {
		return interfaces.CheckoutSession{}, ErrQuoteNotFound
	}
	// Only sent quotes may initiate payment: drafts are private and paid
	// quotes are settled. Line items and total were validated on send.
	if q.Status != entities.QuoteStatusSent {
		return interfaces.CheckoutSession{}, ErrQuoteNotPayable
	}

	if q.CheckoutSessionID != "" {
		existing, err := u.gateway.GetSession(ctx, q.CheckoutSessionID)
		if err == nil && existing.Open && existing.URL != "" {
			return existing, nil
		}
		// Expired or unknown session: mint a new one below.
	}

	successURL := fmt.Sprintf("%s/q/%s?session_id={CHECKOUT_SESSION_ID}", u.siteURL, q.ID)
	cancelURL := fmt.Sprintf("%s/q/%s", u.siteURL, q.ID)

	sess, err := u.gateway.CreateSession(ctx, q, successURL, cancelURL)
	if err != nil {
		logger.S().Errorw("checkout session create failed", "quote_id", q.ID, "err", err)
		return interfaces.CheckoutSession{}, fmt.Errorf("%w: %v", ErrPaymentNotAvailable, err)
	}

	// Persist the reference before handing back the URL, so the session is
	// on record for reconciliation even if the caller never sees the reply.
	if err := u.quoteRepo.SetCheckoutSession(ctx, q.ID, sess.ID); err != nil {
		return interfaces.CheckoutSession{}, err
	}
	return sess, nil
}

// ConfirmPayment handles an asynchronous provider notification.
//
// The signature is verified before anything else; unverifiable input is
// rejected without touching state. The paid transition itself is a single
// conditional write (status sent -> paid), so redelivery is a no-op.
func (u *CheckoutUseCase) ConfirmPayment(ctx context.Context, payload []byte, header http.Header) (bool, error) {
	if u.gateway == nil {
		return false, ErrPaymentNotAvailable
	}

	n, err := u.gateway.VerifyNotification(ctx, payload, header)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}
	if !n.Paid || n.QuoteID == "" {
		// Verified but not a completed payment for a quote; acknowledge.
		return false, nil
	}

	u.recordEvent(ctx, n)

	applied, err := u.quoteRepo.MarkPaid(ctx, n.QuoteID, n.SessionID)
	if err != nil {
		// Genuine storage failure: surface it so the provider redelivers.
		return false, err
	}
	if !applied {
		logger.S().Infow("payment notification was a no-op", "quote_id", n.QuoteID, "session_id", n.SessionID)
	}
	return applied, nil
}

// recordEvent persists the notification for audit. The event log is not on
// the critical path: a write failure is logged and confirmation proceeds.
func (u *CheckoutUseCase) recordEvent(ctx context.Context, n interfaces.PaymentNotification) {
	if u.eventRepo == nil {
		return
	}
	id := n.EventID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := u.eventRepo.Create(ctx, entities.PaymentEvent{
		ID:         id,
		Provider:   u.gateway.Provider(),
		QuoteID:    n.QuoteID,
		SessionID:  n.SessionID,
		Status:     "completed",
		PayloadRaw: n.Raw,
		ReceivedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.S().Errorw("payment event persist failed", "quote_id", n.QuoteID, "event_id", id, "err", err)
	}
}
