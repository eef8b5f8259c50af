package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts, order-preserving, one vector per input.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// Completer issues one LLM completion request and returns the text verbatim.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
// Embeddings[i] always corresponds to the i-th input text.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// TimeoutEmbedder bounds every batch call with a deadline so a hung provider
// surfaces as ErrTimeout instead of stalling ingestion or queries.
type TimeoutEmbedder struct {
	next    BatchEmbedder
	timeout time.Duration
}

// NewTimeoutEmbedder decorates a BatchEmbedder with a per-call deadline.
// A zero timeout disables the deadline.
func NewTimeoutEmbedder(next BatchEmbedder, timeout time.Duration) *TimeoutEmbedder {
	return &TimeoutEmbedder{next: next, timeout: timeout}
}

func (e *TimeoutEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	res, err := e.next.BatchEmbed(ctx, texts)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return BatchEmbeddingResult{}, fmt.Errorf("embed exceeded %s deadline: %w", e.timeout, ErrTimeout)
	}
	return res, err
}

// BatchFallback calls Embed once per text. Safety net for providers
// without native batch support.
func BatchFallback(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	embeddings := make([][]float32, len(texts))
	var totalPrompt, totalTokens int

	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		embeddings[i] = res.Embedding
		totalPrompt += res.PromptTokens
		totalTokens += res.TotalTokens
	}

	return BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: totalPrompt,
		TotalTokens:  totalTokens,
	}, nil
}
