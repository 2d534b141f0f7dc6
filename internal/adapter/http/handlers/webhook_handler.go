package handlers

import (
	"errors"
	"net/http"

	"quoteflow/internal/observability/logger"
	"quoteflow/internal/usecase"
	"quoteflow/pkg"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives asynchronous payment notifications from the
// checkout provider. Signature verification happens in the use case; this
// layer only decides the status code the provider sees, because that code
// drives redelivery.

type WebhookHandler struct {
	usecase usecase.ICheckoutUseCase
}

func NewWebhookHandler(uc usecase.ICheckoutUseCase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// HandleNotification processes one provider notification.
//
// Status contract:
//   - 200: processed, including verified no-ops (redelivery, unknown quote)
//   - 400: unverifiable payload; redelivery cannot help
//   - 500: storage failure; the provider should redeliver
func (h *WebhookHandler) HandleNotification(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_NOTIFICATION", "Unreadable notification body", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	applied, err := h.usecase.ConfirmPayment(c.Request.Context(), payload, c.Request.Header)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidNotification) {
			logger.S().Warnw("rejected payment notification", "err", err)
			appErr := pkg.NewDomainErrorSimple("INVALID_NOTIFICATION", "Invalid payment notification", http.StatusBadRequest)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		if errors.Is(err, usecase.ErrPaymentNotAvailable) {
			appErr := pkg.NewDomainErrorSimple("PAYMENT_UNAVAILABLE", "Payment is not configured", http.StatusServiceUnavailable)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		appErr := pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true, "applied": applied})
}
