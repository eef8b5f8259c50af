// Package embedding provides the batched, cached, order-preserving embedder.
package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/repository/embcache"
)

// DefaultBatchSize bounds provider calls when no batch size is configured.
const DefaultBatchSize = 32

// maxConcurrentBatches caps in-flight provider calls per BatchEmbed.
const maxConcurrentBatches = 4

// Service embeds texts through a provider with memoized caching, batch-size
// bounded calls, and optional L2 normalization. Batches are dispatched
// concurrently; vectors are written back to their original input positions,
// so the output order always matches the input order.
type Service struct {
	provider  domain.BatchEmbedder
	cache     *embcache.Cache
	batchSize int
	normalize bool
	logger    *zap.Logger
}

// New creates an embedding service.
func New(provider domain.BatchEmbedder, batchSize int, normalize bool, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Service{
		provider:  provider,
		batchSize: batchSize,
		normalize: normalize,
		logger:    logger,
	}
}

// WithCache attaches an embedding cache.
func (s *Service) WithCache(c *embcache.Cache) *Service {
	s.cache = c
	return s
}

// BatchEmbed implements domain.BatchEmbedder. A failure in any provider
// batch fails the whole call; no partial vector list is ever returned.
func (s *Service) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	vectors := make([][]float32, len(texts))

	// Cache pass: satisfied positions are filled, misses queue for the provider.
	var missIdx []int
	for i, t := range texts {
		if s.cache != nil {
			if vec, ok := s.cache.Get(ctx, t); ok {
				vectors[i] = vec
				continue
			}
		}
		missIdx = append(missIdx, i)
	}

	numBatches := (len(missIdx) + s.batchSize - 1) / s.batchSize
	promptTokens := make([]int, numBatches)
	totalTokens := make([]int, numBatches)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	for b := 0; b < numBatches; b++ {
		lo := b * s.batchSize
		hi := lo + s.batchSize
		if hi > len(missIdx) {
			hi = len(missIdx)
		}
		idxs := missIdx[lo:hi]
		batchNo := b

		g.Go(func() error {
			batchTexts := make([]string, len(idxs))
			for j, i := range idxs {
				batchTexts[j] = texts[i]
			}

			res, err := s.provider.BatchEmbed(gctx, batchTexts)
			if err != nil {
				return fmt.Errorf("embed batch %d (%d texts): %w", batchNo, len(batchTexts), err)
			}
			if len(res.Embeddings) != len(batchTexts) {
				return fmt.Errorf(
					"embed batch %d: got %d vectors for %d texts: %w",
					batchNo, len(res.Embeddings), len(batchTexts), domain.ErrProviderError,
				)
			}

			// Write back to original positions; each goroutine owns a
			// disjoint index set, so no synchronization is needed.
			for j, i := range idxs {
				vec := res.Embeddings[j]
				if s.normalize {
					vec = domain.Normalize(vec)
				}
				vectors[i] = vec
				if s.cache != nil {
					s.cache.Put(gctx, texts[i], vec)
				}
			}

			promptTokens[batchNo] = res.PromptTokens
			totalTokens[batchNo] = res.TotalTokens
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.BatchEmbeddingResult{}, err
	}

	var prompt, total int
	for b := 0; b < numBatches; b++ {
		prompt += promptTokens[b]
		total += totalTokens[b]
	}

	return domain.BatchEmbeddingResult{
		Embeddings:   vectors,
		PromptTokens: prompt,
		TotalTokens:  total,
	}, nil
}

// Embed implements domain.Embedder as a convenience over BatchEmbed.
func (s *Service) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := s.BatchEmbed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embeddings[0],
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}
