// Package answer produces the final grounded answer from retrieved context.
package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

const groundingSystem = "You answer questions strictly from the provided context. " +
	"If the context does not contain enough information to answer, say so explicitly " +
	"instead of guessing. Cite the sources you used."

// InsufficientContext is returned without a provider call when retrieval
// produced no passages (e.g. an empty corpus).
const InsufficientContext = "I don't have enough context to answer that question."

// Service generates grounded answers via an LLM completion provider.
type Service struct {
	completer domain.Completer
	logger    *zap.Logger
}

// New creates an answer service.
func New(completer domain.Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Generate returns the model's answer for a question over the given context.
// Provider failures and timeouts propagate unmodified; no fabricated answer
// is ever returned on error.
func (s *Service) Generate(ctx context.Context, question, contextText string) (string, error) {
	if contextText == "" {
		return InsufficientContext, nil
	}

	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)

	text, err := s.completer.Complete(ctx, groundingSystem, user)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return text, nil
}
