package ragdex

import (
	"context"

	"go.uber.org/zap"
)

// Chunking strategy names accepted by ChunkingConfig.Strategy.
const (
	StrategyFixed     = "fixed"
	StrategyRecursive = "recursive"
	StrategySemantic  = "semantic"
	StrategyStructure = "document_structure"
)

// ChunkingConfig controls how documents are split before embedding.
type ChunkingConfig struct {
	Strategy     string
	ChunkSize    int
	Overlap      int
	Separators   []string
	MinChunkSize int
}

// Embedder is the public contract for a replacement embedding provider.
// Vectors must be returned in input order, one per text.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer is the public contract for a replacement completion provider.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type clientConfig struct {
	apiKey          string
	baseURL         string
	providerName    string
	embeddingModel  string
	completionModel string
	dimensions      int
	temperature     float32
	maxTokens       int

	batchSize int
	normalize bool
	cacheSize int

	chunking ChunkingConfig

	topK           int
	scoreThreshold float64
	rerank         bool
	rerankTopN     int
	queryExpansion bool

	embedder  Embedder
	completer Completer
	logger    *zap.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		providerName:    "openai",
		embeddingModel:  "text-embedding-3-small",
		completionModel: "gpt-4o-mini",
		maxTokens:       1024,
		batchSize:       32,
		normalize:       true,
		cacheSize:       10000,
		chunking: ChunkingConfig{
			Strategy:  StrategyRecursive,
			ChunkSize: 1000,
		},
		topK:   5,
		logger: zap.NewNop(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithOpenAI configures the OpenAI-compatible provider API key.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) { c.apiKey = apiKey }
}

// WithBaseURL points the provider client at an OpenAI-compatible gateway.
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) { c.baseURL = baseURL }
}

// WithModels overrides the embedding and completion model names.
func WithModels(embeddingModel, completionModel string) Option {
	return func(c *clientConfig) {
		if embeddingModel != "" {
			c.embeddingModel = embeddingModel
		}
		if completionModel != "" {
			c.completionModel = completionModel
		}
	}
}

// WithDimensions requests reduced-dimension embeddings from the provider.
func WithDimensions(dimensions int) Option {
	return func(c *clientConfig) { c.dimensions = dimensions }
}

// WithChunking overrides the chunking configuration.
func WithChunking(cfg ChunkingConfig) Option {
	return func(c *clientConfig) { c.chunking = cfg }
}

// WithRetrieval sets the result count and minimum similarity score.
func WithRetrieval(topK int, scoreThreshold float64) Option {
	return func(c *clientConfig) {
		c.topK = topK
		c.scoreThreshold = scoreThreshold
	}
}

// WithRerank enables lexical reranking of retrieved passages. topN <= 0
// keeps up to topK results.
func WithRerank(topN int) Option {
	return func(c *clientConfig) {
		c.rerank = true
		c.rerankTopN = topN
	}
}

// WithQueryExpansion enables hypothetical-answer query expansion. Costs one
// extra completion request per query.
func WithQueryExpansion() Option {
	return func(c *clientConfig) { c.queryExpansion = true }
}

// WithBatchSize bounds texts per embedding provider call.
func WithBatchSize(size int) Option {
	return func(c *clientConfig) { c.batchSize = size }
}

// WithCacheSize bounds the in-memory embedding cache. Zero disables caching.
func WithCacheSize(size int) Option {
	return func(c *clientConfig) { c.cacheSize = size }
}

// WithCompletion overrides the completion sampling parameters.
func WithCompletion(temperature float32, maxTokens int) Option {
	return func(c *clientConfig) {
		c.temperature = temperature
		if maxTokens > 0 {
			c.maxTokens = maxTokens
		}
	}
}

// WithEmbedder replaces the embedding provider (local models, tests).
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithCompleter replaces the completion provider (local models, tests).
func WithCompleter(p Completer) Option {
	return func(c *clientConfig) { c.completer = p }
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}
