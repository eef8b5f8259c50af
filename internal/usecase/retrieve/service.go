// Package retrieve turns a question into a ranked, filtered, optionally
// reranked set of source passages.
package retrieve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// hydeSystem instructs the model to produce a hypothetical answer passage
// (HyDE). The passage is embedded alongside the question; it tends to sit
// closer in embedding space to the target chunks than the bare question.
const hydeSystem = "Write a short, plausible passage of at most three sentences that could " +
	"answer the user's question. Do not address the user; produce only the passage text."

// Config holds immutable retrieval settings for a pipeline instance.
type Config struct {
	TopK           int
	ScoreThreshold float64
	RerankEnabled  bool
	RerankTopN     int
	QueryExpansion bool
}

// Validate checks the retrieval configuration.
func (c Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d: %w", c.TopK, domain.ErrInvalidConfig)
	}
	if c.ScoreThreshold < -1 || c.ScoreThreshold > 1 {
		return fmt.Errorf(
			"score threshold must be within [-1, 1], got %f: %w",
			c.ScoreThreshold, domain.ErrInvalidConfig,
		)
	}
	if c.RerankTopN < 0 {
		return fmt.Errorf("rerank top_n must not be negative, got %d: %w", c.RerankTopN, domain.ErrInvalidConfig)
	}
	return nil
}

// Service handles retrieval: optional HyDE expansion, embedding, over-fetched
// vector search, threshold filtering, and optional reranking.
type Service struct {
	index     Index
	embed     Embedder
	completer Completer
	cfg       Config
	logger    *zap.Logger
}

// New creates a retrieval service. completer may be nil when query
// expansion is disabled.
func New(index Index, embed Embedder, completer Completer, cfg Config, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.QueryExpansion && completer == nil {
		return nil, fmt.Errorf("query expansion requires a completer: %w", domain.ErrInvalidConfig)
	}
	return &Service{index: index, embed: embed, completer: completer, cfg: cfg, logger: logger}, nil
}

// Retrieve returns the final ordered passage set for a question.
func (s *Service) Retrieve(ctx context.Context, question string) ([]domain.SearchResult, error) {
	searchText := question
	if s.cfg.QueryExpansion {
		hypothetical, err := s.completer.Complete(ctx, hydeSystem, question)
		if err != nil {
			return nil, fmt.Errorf("expand query: %w", err)
		}
		searchText = question + "\n\n" + hypothetical
		s.logger.Debug("query expanded",
			zap.Int("question_len", len(question)),
			zap.Int("hypothetical_len", len(hypothetical)),
		)
	}

	embResult, err := s.embed.Embed(ctx, searchText)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	// Over-fetch to leave room for threshold filtering and reranking.
	candidates, err := s.index.Search(ctx, embResult.Embedding, s.cfg.TopK*2)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	filtered := candidates[:0]
	for _, r := range candidates {
		if r.Score() >= s.cfg.ScoreThreshold {
			filtered = append(filtered, r)
		}
	}

	if s.cfg.RerankEnabled {
		topN := s.cfg.RerankTopN
		if topN <= 0 {
			topN = s.cfg.TopK
		}
		// Rerank against the original question, never the expanded text.
		return rerankLexical(question, filtered, topN), nil
	}

	if len(filtered) > s.cfg.TopK {
		filtered = filtered[:s.cfg.TopK]
	}
	return filtered, nil
}
