package routes

import (
	"log"
	"strconv"

	_ "quoteflow/docs" // This will be auto-generated
	"quoteflow/internal/adapter/http/handlers"
	repository2 "quoteflow/internal/adapter/persistence/repository"
	"quoteflow/internal/infrastructure/ai"
	"quoteflow/internal/infrastructure/config"
	"quoteflow/internal/infrastructure/database"
	"quoteflow/internal/infrastructure/payments"
	"quoteflow/internal/observability/logger"
	"quoteflow/internal/ratelimit"
	"quoteflow/internal/usecase"
	"quoteflow/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var router = gin.Default()

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.Debug)

	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(cfg)

	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

func getRoutes(cfg config.Config) {
	ddb := database.ConnectDynamoDB()

	quoteRepo := repository2.NewQuoteDynamoRepository(ddb)
	eventRepo := repository2.NewPaymentEventDynamoRepository(ddb)

	gateway := buildCheckoutGateway(cfg)
	completionClient := buildCompletionClient(cfg)

	var limitStore ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.RateLimitStore == "dynamodb" {
		limitStore = ratelimit.NewDynamoStore(ddb)
	}

	quoteUseCase := usecase.NewQuoteUseCase(quoteRepo)
	checkoutUseCase := usecase.NewCheckoutUseCase(quoteRepo, eventRepo, gateway, cfg.SiteURL)
	suggestionUseCase := usecase.NewSuggestionUseCase(completionClient)

	quoteHandler := handlers.NewQuoteHandler(quoteUseCase)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutUseCase)
	webhookHandler := handlers.NewWebhookHandler(checkoutUseCase)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionUseCase)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addQuoteRoutes(v1, cfg, limitStore, quoteHandler, checkoutHandler, webhookHandler, suggestionHandler)
}

// buildCheckoutGateway picks the provider implementation from config. A
// missing credential leaves the gateway nil and payment endpoints answer
// with an explicit "not configured" error.
func buildCheckoutGateway(cfg config.Config) interfaces.ICheckoutGateway {
	switch cfg.CheckoutProvider {
	case "mercadopago":
		gateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoToken)
		if err != nil {
			logger.S().Warnw("mercado pago gateway not configured", "err", err)
			return nil
		}
		return gateway
	default:
		gateway, err := payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
		if err != nil {
			logger.S().Warnw("stripe gateway not configured", "err", err)
			return nil
		}
		return gateway
	}
}

func buildCompletionClient(cfg config.Config) interfaces.ICompletionClient {
	client, err := ai.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.SuggestionModels, cfg.ExternalCallTimeout)
	if err != nil {
		logger.S().Warnw("completion client not configured", "err", err)
		return nil
	}
	return client
}

func setMiddlewares() {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.S().Errorw("recovered from panic", "panic", recovered)
		c.AbortWithStatus(500)
	}))
}
