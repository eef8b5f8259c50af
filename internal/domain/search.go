package domain

// SearchResult is a transient value produced by similarity search.
// Recreated on every query, never persisted.
type SearchResult struct {
	chunkID  string
	score    float64
	content  string
	metadata map[string]string
}

// NewSearchResult creates a SearchResult.
func NewSearchResult(chunkID string, score float64, content string, metadata map[string]string) SearchResult {
	return SearchResult{chunkID: chunkID, score: score, content: content, metadata: metadata}
}

// ChunkID returns the matched chunk identifier.
func (r *SearchResult) ChunkID() string { return r.chunkID }

// Score returns the similarity score.
func (r *SearchResult) Score() float64 { return r.score }

// Content returns the matched chunk text.
func (r *SearchResult) Content() string { return r.content }

// Metadata returns the matched chunk metadata.
func (r *SearchResult) Metadata() map[string]string { return r.metadata }

// WithScore returns a copy with the score replaced (reranking).
func (r *SearchResult) WithScore(score float64) SearchResult {
	return SearchResult{chunkID: r.chunkID, score: score, content: r.content, metadata: r.metadata}
}
