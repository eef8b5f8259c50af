// Package pipeline orchestrates document ingestion and question answering.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/chunker"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	"github.com/kailas-cloud/ragdex/internal/usecase/answer"
)

// contextSeparator joins retrieved passages into the prompt context block.
const contextSeparator = "\n\n---\n\n"

// IngestStats summarizes one ingestion call.
type IngestStats struct {
	DocumentsIngested int
	ChunksCreated     int
	TokensProcessed   int
}

// QueryResult is the full query response: the answer plus the evidence
// that produced it.
type QueryResult struct {
	Answer    string
	Sources   []domain.SearchResult
	Context   string
	LatencyMs int64
}

// Service wires the chunker, embedder, index, retriever and answer
// generator into the two pipeline operations.
type Service struct {
	chunkCfg  chunker.Config
	embedder  domain.BatchEmbedder
	index     Index
	retriever Retriever
	answerer  AnswerGenerator
	logger    *zap.Logger
}

// New creates a pipeline service. The chunking configuration is validated
// eagerly so a misconfigured pipeline fails at startup, not mid-ingest.
func New(
	chunkCfg chunker.Config,
	embedder domain.BatchEmbedder,
	index Index,
	retriever Retriever,
	answerer AnswerGenerator,
	logger *zap.Logger,
) (*Service, error) {
	if err := chunkCfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		chunkCfg:  chunkCfg,
		embedder:  embedder,
		index:     index,
		retriever: retriever,
		answerer:  answerer,
		logger:    logger,
	}, nil
}

// Ingest chunks, embeds and indexes the given documents. Re-ingesting a
// document ID replaces its previous chunks. Per document, all chunks are
// embedded before the index is touched, so an embedding failure never
// leaves a document half-indexed.
func (s *Service) Ingest(ctx context.Context, docs []domain.Document) (IngestStats, error) {
	start := time.Now()
	var stats IngestStats

	for d := range docs {
		doc := docs[d]

		chunks, err := chunker.Chunk(doc, s.chunkCfg)
		if err != nil {
			return stats, fmt.Errorf("chunk document %q: %w", doc.ID(), err)
		}
		if len(chunks) == 0 {
			s.logger.Warn("document produced no chunks", zap.String("document_id", doc.ID()))
			continue
		}

		texts := make([]string, len(chunks))
		for i := range chunks {
			texts[i] = chunks[i].Content()
		}

		embedded, err := s.embedder.BatchEmbed(ctx, texts)
		if err != nil {
			return stats, fmt.Errorf("embed document %q: %w", doc.ID(), err)
		}

		if err := s.index.DeleteDocument(ctx, doc.ID()); err != nil {
			return stats, fmt.Errorf("replace document %q: %w", doc.ID(), err)
		}
		for i := range chunks {
			c := &chunks[i]
			if err := s.index.Add(ctx, c.ID(), c.DocumentID(), embedded.Embeddings[i], c.Content(), c.Metadata()); err != nil {
				return stats, fmt.Errorf("index chunk %q: %w", c.ID(), err)
			}
			stats.TokensProcessed += c.TokenCount()
		}

		stats.DocumentsIngested++
		stats.ChunksCreated += len(chunks)

		s.logger.Info("document ingested",
			zap.String("document_id", doc.ID()),
			zap.Int("chunks", len(chunks)),
		)
	}

	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	metrics.IngestChunksTotal.Add(float64(stats.ChunksCreated))
	return stats, nil
}

// Query answers a question from the indexed corpus. An empty index yields
// a well-formed insufficient-context response without any provider calls.
func (s *Service) Query(ctx context.Context, question string) (QueryResult, error) {
	start := time.Now()

	if strings.TrimSpace(question) == "" {
		return QueryResult{}, fmt.Errorf("question must not be empty: %w", domain.ErrEmptyQuery)
	}

	if s.index.Size() == 0 {
		s.logger.Warn("query against empty index")
		return QueryResult{
			Answer:    answer.InsufficientContext,
			LatencyMs: time.Since(start).Milliseconds(),
		}, nil
	}

	sources, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return QueryResult{}, err
	}

	parts := make([]string, len(sources))
	for i := range sources {
		parts[i] = sources[i].Content()
	}
	contextText := strings.Join(parts, contextSeparator)

	answerText, err := s.answerer.Generate(ctx, question, contextText)
	if err != nil {
		return QueryResult{}, err
	}

	metrics.QueryDuration.Observe(time.Since(start).Seconds())
	metrics.QueryResultsReturned.Observe(float64(len(sources)))

	s.logger.Info("query answered",
		zap.Int("sources", len(sources)),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
	)

	return QueryResult{
		Answer:    answerText,
		Sources:   sources,
		Context:   contextText,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
