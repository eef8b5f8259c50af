package pipeline

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Index is the consumer interface for ingestion-side index mutation.
type Index interface {
	Add(ctx context.Context, chunkID, documentID string, vector []float32, content string, metadata map[string]string) error
	DeleteDocument(ctx context.Context, documentID string) error
	Size() int
}

// Retriever returns the ordered passage set for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]domain.SearchResult, error)
}

// AnswerGenerator produces the grounded answer for a question over context.
type AnswerGenerator interface {
	Generate(ctx context.Context, question, contextText string) (string, error)
}
