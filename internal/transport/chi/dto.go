package chi

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeEmptyQuery       = "empty_query"
	CodeProviderError    = "provider_error"
	CodeTimeout          = "timeout"
	CodeInternalError    = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IngestDocument is one document in an ingestion request. A missing ID is
// assigned server-side.
type IngestDocument struct {
	ID       string            `json:"id,omitempty"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Source   string            `json:"source,omitempty"`
}

// IngestRequest is the POST /api/v1/ingest body.
type IngestRequest struct {
	Documents []IngestDocument `json:"documents"`
}

// IngestResponse reports ingestion statistics.
type IngestResponse struct {
	DocumentsIngested int `json:"documents_ingested"`
	ChunksCreated     int `json:"chunks_created"`
	TokensProcessed   int `json:"tokens_processed"`
}

// QueryRequest is the POST /api/v1/query body.
type QueryRequest struct {
	Question string `json:"question"`
}

// SourceItem is one retrieved passage backing an answer.
type SourceItem struct {
	ChunkID  string            `json:"chunk_id"`
	Score    float64           `json:"score"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// QueryResponse is the answer plus its supporting evidence.
type QueryResponse struct {
	Answer    string       `json:"answer"`
	Sources   []SourceItem `json:"sources"`
	Context   string       `json:"context"`
	LatencyMs int64        `json:"latency_ms"`
}

// HealthResponse reports aggregated component health.
type HealthResponse struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks,omitempty"`
	IndexedChunks int               `json:"indexed_chunks"`
	Version       string            `json:"version"`
}
