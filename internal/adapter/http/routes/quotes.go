package routes

import (
	"quoteflow/internal/adapter/http/handlers"
	"quoteflow/internal/adapter/http/middleware"
	"quoteflow/internal/infrastructure/config"
	"quoteflow/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotes   = "/quotes"
	PathPublic   = "/public/quotes"
	PathCheckout = "/checkout"
	PathWebhooks = "/webhooks"
	PathSuggest  = "/quotes/suggest"
)

func addQuoteRoutes(
	rg *gin.RouterGroup,
	cfg config.Config,
	limitStore ratelimit.Store,
	quoteHandler *handlers.QuoteHandler,
	checkoutHandler *handlers.CheckoutHandler,
	webhookHandler *handlers.WebhookHandler,
	suggestionHandler *handlers.SuggestionHandler,
) {
	auth := middleware.Auth(cfg.AuthJWTSecret)

	quotes := rg.Group(PathQuotes, auth)
	{
		quotes.POST("", quoteHandler.CreateQuote)
		quotes.GET("", quoteHandler.ListQuotes)
		quotes.GET("/:id", quoteHandler.GetQuote)
		quotes.PUT("/:id", quoteHandler.UpdateQuote)
		quotes.DELETE("/:id", quoteHandler.DeleteQuote)
		quotes.POST("/:id/send", quoteHandler.SendQuote)
	}

	// The suggest route shares the /quotes prefix but carries its own rate
	// limit on top of auth.
	rg.POST(PathSuggest, auth,
		middleware.RateLimit(limitStore, cfg.SuggestionRateLimit, cfg.SuggestionRateWindow, "suggest"),
		suggestionHandler.SuggestLineItems)

	// Payer-facing routes: no auth, throttled by client IP.
	rg.GET(PathPublic+"/:id", quoteHandler.GetPublicQuote)
	rg.POST(PathCheckout,
		middleware.RateLimit(limitStore, cfg.CheckoutRateLimit, cfg.CheckoutRateWindow, "checkout"),
		checkoutHandler.CreateCheckoutSession)

	// Provider notifications: authenticity is the payload signature, never a
	// bearer token.
	webhooks := rg.Group(PathWebhooks)
	{
		webhooks.POST("/stripe", webhookHandler.HandleNotification)
		webhooks.POST("/mercadopago", webhookHandler.HandleNotification)
	}
}
