package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"quoteflow/internal/observability/logger"
	"quoteflow/internal/usecase/interfaces"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	ErrMissingOpenRouterAPIKey = errors.New("missing OPENROUTER_API_KEY")
	ErrNoCompletion            = errors.New("no completion returned by any configured model")
)

// OpenRouterClient talks to the OpenRouter chat-completions API (OpenAI
// compatible). Models are tried in preference order; the first non-empty
// completion wins. Free-tier models are flaky, so the list should span
// different upstream providers.

type OpenRouterClient struct {
	client  openai.Client
	models  []string
	timeout time.Duration
}

var _ interfaces.ICompletionClient = (*OpenRouterClient)(nil)

func NewOpenRouterClient(apiKey, baseURL string, models []string, timeout time.Duration) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, ErrMissingOpenRouterAPIKey
	}
	if len(models) == 0 {
		return nil, errors.New("at least one model is required")
	}
	return &OpenRouterClient{
		client:  openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL)),
		models:  models,
		timeout: timeout,
	}, nil
}

func (c *OpenRouterClient) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error = ErrNoCompletion
	for _, model := range c.models {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		completion, err := c.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
		})
		cancel()
		if err != nil {
			logger.S().Warnw("completion attempt failed", "model", model, "err", err)
			lastErr = err
			continue
		}
		if len(completion.Choices) > 0 {
			if content := strings.TrimSpace(completion.Choices[0].Message.Content); content != "" {
				return content, nil
			}
		}
	}
	return "", lastErr
}
