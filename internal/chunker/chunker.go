// Package chunker splits documents into retrievable passages.
package chunker

import (
	"fmt"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Strategy selects the chunk splitting algorithm.
type Strategy string

// Supported chunking strategies.
const (
	StrategyFixed     Strategy = "fixed"
	StrategyRecursive Strategy = "recursive"
	StrategySemantic  Strategy = "semantic"
	StrategyStructure Strategy = "document_structure"
)

// DefaultSeparators is the recursive split order, coarsest to finest.
// The empty string terminates the recursion with a character-level cut.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " ", ""}

// Config holds immutable chunking settings.
type Config struct {
	Strategy     Strategy
	ChunkSize    int
	Overlap      int
	Separators   []string
	MinChunkSize int
}

// Validate checks the configuration. Overlap is only meaningful for the
// fixed strategy but must be smaller than the chunk size whenever set.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyFixed, StrategyRecursive, StrategySemantic, StrategyStructure:
	default:
		return fmt.Errorf("unknown chunking strategy %q: %w", c.Strategy, domain.ErrInvalidConfig)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d: %w", c.ChunkSize, domain.ErrInvalidConfig)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap must not be negative, got %d: %w", c.Overlap, domain.ErrInvalidConfig)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf(
			"overlap %d must be smaller than chunk size %d: %w",
			c.Overlap, c.ChunkSize, domain.ErrInvalidConfig,
		)
	}
	return nil
}

// separators returns the configured separator list or the default order.
func (c Config) separators() []string {
	if len(c.Separators) > 0 {
		return c.Separators
	}
	return DefaultSeparators
}

// Chunk deterministically splits a document into an ordered chunk sequence.
// Pure function of the document text and config. Empty documents produce
// an empty sequence.
func Chunk(doc domain.Document, cfg Config) ([]domain.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doc.Content() == "" {
		return nil, nil
	}

	var spans []span
	switch cfg.Strategy {
	case StrategyFixed:
		spans = splitFixed(doc.Content(), cfg)
	case StrategyRecursive:
		spans = splitRecursive(doc.Content(), cfg)
	case StrategySemantic:
		spans = splitSemantic(doc.Content(), cfg)
	case StrategyStructure:
		return splitStructure(doc, cfg)
	}

	return chunksFromSpans(doc, spans), nil
}

// span is a half-open [start, end) slice of the document content.
type span struct {
	start int
	end   int
}

func chunksFromSpans(doc domain.Document, spans []span) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(spans))
	for i, s := range spans {
		content := doc.Content()[s.start:s.end]
		chunks = append(chunks, domain.NewChunk(
			fmt.Sprintf("%s_chunk_%d", doc.ID(), i),
			doc.ID(),
			content,
			chunkMetadata(doc, nil),
			s.start,
			s.end,
			estimateTokens(content),
		))
	}
	return chunks
}

// chunkMetadata copies document metadata and augments it with the source
// label plus any extra keys.
func chunkMetadata(doc domain.Document, extra map[string]string) map[string]string {
	m := make(map[string]string, len(doc.Metadata())+len(extra)+1)
	for k, v := range doc.Metadata() {
		m[k] = v
	}
	if doc.Source() != "" {
		m["source"] = doc.Source()
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

// estimateTokens uses the chars/4 heuristic, never below 1 for non-empty text.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := (len(text) + 3) / 4
	if n < 1 {
		n = 1
	}
	return n
}
