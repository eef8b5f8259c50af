package retrieve

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Index is the consumer interface for top-K vector search.
type Index interface {
	Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error)
}

// Embedder vectorizes the (possibly expanded) query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Completer generates the hypothetical answer passage for query expansion.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
