package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

// Completer is an LLM completion provider using the OpenAI-compatible chat API.
type Completer struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	purpose     string
	logger      *zap.Logger
}

// CompleterConfig holds the completion provider settings.
type CompleterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Purpose     string // metric label: "answer" / "hyde"
	Logger      *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *CompleterConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Completer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		purpose:     cfg.Purpose,
		logger:      cfg.Logger,
	}
}

// Complete implements domain.Completer. The caller controls the deadline
// via ctx; timeouts surface as domain.ErrTimeout.
func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, c.purpose, "error").Inc()
		return "", parseCompletionError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, c.purpose, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.model, c.purpose, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

func parseCompletionError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("completion request deadline exceeded: %w", domain.ErrTimeout)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrProviderError)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrProviderError)
	}

	return fmt.Errorf("completion request failed: %w", domain.ErrProviderError)
}
