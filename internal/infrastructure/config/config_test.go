package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "stripe", cfg.CheckoutProvider)
	require.Equal(t, "memory", cfg.RateLimitStore)
	require.Equal(t, 20*time.Second, cfg.ExternalCallTimeout)
	require.Equal(t, 5, cfg.CheckoutRateLimit)
	require.Equal(t, 10, cfg.SuggestionRateLimit)
	require.NotEmpty(t, cfg.SuggestionModels)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CHECKOUT_PROVIDER", "mercadopago")
	t.Setenv("RATE_LIMIT_STORE", "dynamodb")
	t.Setenv("SUGGESTION_MODELS", "model-a,model-b")
	t.Setenv("CHECKOUT_RATE_WINDOW", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "mercadopago", cfg.CheckoutProvider)
	require.Equal(t, "dynamodb", cfg.RateLimitStore)
	require.Equal(t, []string{"model-a", "model-b"}, cfg.SuggestionModels)
	require.Equal(t, 30*time.Second, cfg.CheckoutRateWindow)
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}
