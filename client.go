// Package ragdex embeds the retrieval-augmented answering pipeline as a
// library: chunking, cached embeddings, in-memory vector search and grounded
// answer generation behind one client, no HTTP server required.
package ragdex

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/chunker"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	"github.com/kailas-cloud/ragdex/internal/repository/embcache"
	"github.com/kailas-cloud/ragdex/internal/repository/index"
	openaiTransport "github.com/kailas-cloud/ragdex/internal/transport/openai"
	answeruc "github.com/kailas-cloud/ragdex/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/ragdex/internal/usecase/embedding"
	pipelineuc "github.com/kailas-cloud/ragdex/internal/usecase/pipeline"
	retrieveuc "github.com/kailas-cloud/ragdex/internal/usecase/retrieve"
)

// Client is the ragdex SDK entry point.
type Client struct {
	pipeline *pipelineuc.Service
	index    *index.Memory
}

// New creates a ragdex Client. Either WithOpenAI or both WithEmbedder and
// WithCompleter must be provided.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}

	embedder, completer, err := buildProviders(cfg)
	if err != nil {
		return nil, err
	}

	embedSvc := embeddinguc.New(embedder, cfg.batchSize, cfg.normalize, cfg.logger)
	if cfg.cacheSize > 0 {
		store, err := embcache.NewMemoryStore(cfg.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("ragdex: create embedding cache: %w", err)
		}
		embedSvc = embedSvc.WithCache(embcache.New(
			store, cfg.providerName, cfg.embeddingModel, metrics.EmbeddingCacheTotal, cfg.logger,
		))
	}

	vectorIndex := index.NewMemory()

	retrieveSvc, err := retrieveuc.New(vectorIndex, embedSvc, completer, retrieveuc.Config{
		TopK:           cfg.topK,
		ScoreThreshold: cfg.scoreThreshold,
		RerankEnabled:  cfg.rerank,
		RerankTopN:     cfg.rerankTopN,
		QueryExpansion: cfg.queryExpansion,
	}, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("ragdex: create retrieval service: %w", err)
	}

	answerSvc := answeruc.New(completer, cfg.logger)

	chunkCfg := chunker.Config{
		Strategy:     chunker.Strategy(cfg.chunking.Strategy),
		ChunkSize:    cfg.chunking.ChunkSize,
		Overlap:      cfg.chunking.Overlap,
		Separators:   cfg.chunking.Separators,
		MinChunkSize: cfg.chunking.MinChunkSize,
	}
	pipelineSvc, err := pipelineuc.New(chunkCfg, embedSvc, vectorIndex, retrieveSvc, answerSvc, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("ragdex: create pipeline: %w", err)
	}

	return &Client{pipeline: pipelineSvc, index: vectorIndex}, nil
}

func buildProviders(cfg *clientConfig) (domain.BatchEmbedder, domain.Completer, error) {
	var embedder domain.BatchEmbedder
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	}
	var completer domain.Completer = cfg.completer

	if embedder == nil || completer == nil {
		if cfg.apiKey == "" {
			return nil, nil, errors.New(
				"ragdex: provider required (use WithOpenAI, or WithEmbedder and WithCompleter)")
		}
		if embedder == nil {
			embedder = openaiTransport.NewEmbedder(&openaiTransport.Config{
				APIKey:     cfg.apiKey,
				BaseURL:    cfg.baseURL,
				Model:      cfg.embeddingModel,
				Dimensions: cfg.dimensions,
				Provider:   cfg.providerName,
				Logger:     cfg.logger,
			})
		}
		if completer == nil {
			completer = openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
				APIKey:      cfg.apiKey,
				BaseURL:     cfg.baseURL,
				Model:       cfg.completionModel,
				Temperature: cfg.temperature,
				MaxTokens:   cfg.maxTokens,
				Purpose:     "answer",
				Logger:      cfg.logger,
			})
		}
	}

	return embedder, completer, nil
}

// embedderAdapter wraps the public Embedder to satisfy domain.BatchEmbedder.
// Custom providers report no token usage.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	vectors, err := a.inner.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.BatchEmbeddingResult{Embeddings: vectors}, nil
}

// Document is one unit of ingestable content.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
	Source   string
}

// IngestStats summarizes one Ingest call.
type IngestStats struct {
	DocumentsIngested int
	ChunksCreated     int
	TokensProcessed   int
}

// Source is one retrieved passage backing an answer.
type Source struct {
	ChunkID  string
	Score    float64
	Content  string
	Metadata map[string]string
}

// Answer is the result of a Query call.
type Answer struct {
	Text      string
	Sources   []Source
	LatencyMs int64
}

// Ingest chunks, embeds and indexes the documents. Re-ingesting a document
// ID replaces its previous chunks.
func (c *Client) Ingest(ctx context.Context, docs []Document) (IngestStats, error) {
	domainDocs := make([]domain.Document, 0, len(docs))
	for i, d := range docs {
		doc, err := domain.NewDocument(d.ID, d.Content, d.Source, d.Metadata)
		if err != nil {
			return IngestStats{}, fmt.Errorf("ragdex: document %d: %w", i, err)
		}
		domainDocs = append(domainDocs, doc)
	}

	stats, err := c.pipeline.Ingest(ctx, domainDocs)
	if err != nil {
		return IngestStats(stats), fmt.Errorf("ragdex: ingest: %w", err)
	}
	return IngestStats(stats), nil
}

// IngestText ingests a single plain-text document.
func (c *Client) IngestText(ctx context.Context, id, content string) (IngestStats, error) {
	return c.Ingest(ctx, []Document{{ID: id, Content: content}})
}

// Query answers a question from the indexed corpus.
func (c *Client) Query(ctx context.Context, question string) (Answer, error) {
	result, err := c.pipeline.Query(ctx, question)
	if err != nil {
		return Answer{}, fmt.Errorf("ragdex: query: %w", err)
	}

	sources := make([]Source, len(result.Sources))
	for i := range result.Sources {
		src := &result.Sources[i]
		sources[i] = Source{
			ChunkID:  src.ChunkID(),
			Score:    src.Score(),
			Content:  src.Content(),
			Metadata: src.Metadata(),
		}
	}

	return Answer{
		Text:      result.Answer,
		Sources:   sources,
		LatencyMs: result.LatencyMs,
	}, nil
}

// Reset drops all indexed chunks.
func (c *Client) Reset(ctx context.Context) error {
	return c.index.Clear(ctx)
}

// Size returns the number of indexed chunks.
func (c *Client) Size() int {
	return c.index.Size()
}
