package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read once at process start and treated as immutable for the
// process lifetime.
//
// Optional integration credentials (payments, AI) may be absent: the
// matching feature then degrades to an explicit "not configured" error
// instead of taking the whole service down.

type Config struct {
	Port    int    `env:"PORT" envDefault:"8080"`
	Debug   bool   `env:"DEBUG" envDefault:"false"`
	SiteURL string `env:"SITE_URL" envDefault:"http://localhost:8080"`

	// HS256 secret used to verify bearer tokens minted by the identity
	// provider; the token subject is the account id.
	AuthJWTSecret string `env:"AUTH_JWT_SECRET"`

	// CheckoutProvider selects the gateway implementation: stripe | mercadopago.
	CheckoutProvider    string `env:"CHECKOUT_PROVIDER" envDefault:"stripe"`
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	MercadoPagoToken    string `env:"MERCADOPAGO_ACCESS_TOKEN"`

	OpenRouterAPIKey  string   `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string   `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	SuggestionModels  []string `env:"SUGGESTION_MODELS" envSeparator:"," envDefault:"liquid/lfm-2.5-1.2b-instruct:free,stepfun/step-3.5-flash:free,google/gemma-3n-e2b-it:free"`

	// ExternalCallTimeout bounds every outbound AI/payment call.
	ExternalCallTimeout time.Duration `env:"EXTERNAL_CALL_TIMEOUT" envDefault:"20s"`

	// RateLimitStore selects the counter backend: memory | dynamodb.
	// Multi-instance deployments need the shared store.
	RateLimitStore       string        `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	CheckoutRateLimit    int           `env:"CHECKOUT_RATE_LIMIT" envDefault:"5"`
	CheckoutRateWindow   time.Duration `env:"CHECKOUT_RATE_WINDOW" envDefault:"60s"`
	SuggestionRateLimit  int           `env:"SUGGESTION_RATE_LIMIT" envDefault:"10"`
	SuggestionRateWindow time.Duration `env:"SUGGESTION_RATE_WINDOW" envDefault:"60s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
