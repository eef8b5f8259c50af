package health

import "context"

// CachePinger checks embedding cache backend availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexSizer reports the number of indexed chunks.
type IndexSizer interface {
	Size() int
}
