package domain

// Chunk is a contiguous span of one document's text, produced by the chunker.
// Chunks are created in batches during ingestion and never mutated afterward.
type Chunk struct {
	id         string
	documentID string
	content    string
	metadata   map[string]string
	start      int
	end        int
	tokenCount int
}

// NewChunk creates a Chunk. Offsets are exact for fixed/recursive/semantic
// strategies and best-effort for structure-based chunking.
func NewChunk(id, documentID, content string, metadata map[string]string, start, end, tokenCount int) Chunk {
	return Chunk{
		id:         id,
		documentID: documentID,
		content:    content,
		metadata:   metadata,
		start:      start,
		end:        end,
		tokenCount: tokenCount,
	}
}

// ID returns the chunk identifier, unique within its parent document.
func (c *Chunk) ID() string { return c.id }

// DocumentID returns the parent document identifier.
func (c *Chunk) DocumentID() string { return c.documentID }

// Content returns the chunk text.
func (c *Chunk) Content() string { return c.content }

// Metadata returns the inherited and augmented metadata.
func (c *Chunk) Metadata() map[string]string { return c.metadata }

// Start returns the starting character offset in the parent document.
func (c *Chunk) Start() int { return c.start }

// End returns the ending character offset in the parent document.
func (c *Chunk) End() int { return c.end }

// TokenCount returns the estimated token count of the chunk text.
func (c *Chunk) TokenCount() int { return c.tokenCount }
