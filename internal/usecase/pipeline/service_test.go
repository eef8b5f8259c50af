package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/chunker"
	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/repository/index"
	answeruc "github.com/kailas-cloud/ragdex/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/ragdex/internal/usecase/embedding"
	retrieveuc "github.com/kailas-cloud/ragdex/internal/usecase/retrieve"
)

// --- Mocks ---

// stubEmbedder maps texts to a tiny keyword space so similarity ranking in
// tests is predictable without a real model.
type stubEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	vec := []float32{0, 0, 1}
	if strings.Contains(lower, "sky") {
		vec[0] = 1
	}
	if strings.Contains(lower, "grass") {
		vec[1] = 1
	}
	return vec
}

func (s *stubEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return domain.BatchEmbeddingResult{}, s.err
	}
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		vecs[i] = keywordVector(t)
	}
	return domain.BatchEmbeddingResult{Embeddings: vecs, TotalTokens: len(texts)}, nil
}

func (s *stubEmbedder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubCompleter struct {
	calls    int
	gotUser  string
	response string
}

func (s *stubCompleter) Complete(_ context.Context, _, user string) (string, error) {
	s.calls++
	s.gotUser = user
	return s.response, nil
}

type fixture struct {
	pipeline  *Service
	index     *index.Memory
	embedder  *stubEmbedder
	completer *stubCompleter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	embedder := &stubEmbedder{}
	embedSvc := embeddinguc.New(embedder, 32, true, zap.NewNop())
	vectorIndex := index.NewMemory()

	retrieveSvc, err := retrieveuc.New(vectorIndex, embedSvc, nil, retrieveuc.Config{TopK: 2}, zap.NewNop())
	if err != nil {
		t.Fatalf("create retriever: %v", err)
	}

	completer := &stubCompleter{response: "The sky is blue."}
	answerSvc := answeruc.New(completer, zap.NewNop())

	svc, err := New(
		chunker.Config{Strategy: chunker.StrategyFixed, ChunkSize: 20},
		embedSvc, vectorIndex, retrieveSvc, answerSvc, zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("create pipeline: %v", err)
	}

	return &fixture{pipeline: svc, index: vectorIndex, embedder: embedder, completer: completer}
}

func mustDoc(t *testing.T, id, content string) domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(id, content, "", nil)
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	return doc
}

// --- Tests ---

func TestNew_InvalidChunkingConfig(t *testing.T) {
	embedder := &stubEmbedder{}
	_, err := New(
		chunker.Config{Strategy: "bogus", ChunkSize: 100},
		embeddinguc.New(embedder, 32, true, zap.NewNop()),
		index.NewMemory(), nil, nil, zap.NewNop(),
	)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestIngestAndQuery_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stats, err := f.pipeline.Ingest(ctx, []domain.Document{
		mustDoc(t, "facts", "The sky is blue. Grass is green."),
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if stats.DocumentsIngested != 1 {
		t.Errorf("expected 1 document ingested, got %d", stats.DocumentsIngested)
	}
	if stats.ChunksCreated != 2 {
		t.Errorf("expected 2 chunks, got %d", stats.ChunksCreated)
	}
	if stats.TokensProcessed == 0 {
		t.Error("expected non-zero token count")
	}
	if f.index.Size() != 2 {
		t.Errorf("expected 2 indexed chunks, got %d", f.index.Size())
	}

	result, err := f.pipeline.Query(ctx, "What color is the sky?")
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	if result.Answer != "The sky is blue." {
		t.Errorf("unexpected answer: %q", result.Answer)
	}
	if len(result.Sources) == 0 {
		t.Fatal("expected at least one source")
	}
	if result.Sources[0].ChunkID() != "facts_chunk_0" {
		t.Errorf("expected the sky chunk ranked first, got %s", result.Sources[0].ChunkID())
	}
	if !strings.Contains(result.Context, "sky") {
		t.Errorf("query context does not carry the retrieved passage: %q", result.Context)
	}
	if !strings.Contains(f.completer.gotUser, "sky") {
		t.Error("completion prompt does not carry the retrieved passage")
	}
}

func TestIngest_ReingestReplacesPreviousChunks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.pipeline.Ingest(ctx, []domain.Document{
		mustDoc(t, "doc1", "The sky is blue. Grass is green."),
	}); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if f.index.Size() != 2 {
		t.Fatalf("expected 2 chunks after first ingest, got %d", f.index.Size())
	}

	if _, err := f.pipeline.Ingest(ctx, []domain.Document{
		mustDoc(t, "doc1", "Grass is green."),
	}); err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if f.index.Size() != 1 {
		t.Errorf("expected re-ingest to replace chunks, index size %d", f.index.Size())
	}

	results, err := f.index.Search(ctx, keywordVector("sky"), 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, r := range results {
		if strings.Contains(r.Content(), "sky") {
			t.Errorf("stale chunk survived re-ingest: %q", r.Content())
		}
	}
}

func TestIngest_EmbeddingFailureLeavesIndexUntouched(t *testing.T) {
	f := newFixture(t)
	f.embedder.err = domain.ErrProviderError

	_, err := f.pipeline.Ingest(context.Background(), []domain.Document{
		mustDoc(t, "doc1", "The sky is blue. Grass is green."),
	})
	if !errors.Is(err, domain.ErrProviderError) {
		t.Fatalf("expected ErrProviderError, got %v", err)
	}
	if f.index.Size() != 0 {
		t.Errorf("failed ingest must not leave partial chunks, index size %d", f.index.Size())
	}
}

func TestQuery_EmptyQuestion(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipeline.Query(context.Background(), "   ")
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestQuery_EmptyIndexAnswersWithoutProviders(t *testing.T) {
	f := newFixture(t)

	result, err := f.pipeline.Query(context.Background(), "What color is the sky?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Answer != answeruc.InsufficientContext {
		t.Errorf("expected the insufficient-context answer, got %q", result.Answer)
	}
	if len(result.Sources) != 0 {
		t.Errorf("expected no sources, got %d", len(result.Sources))
	}
	if f.embedder.callCount() != 0 {
		t.Errorf("embedder must not be called on empty index, got %d calls", f.embedder.callCount())
	}
	if f.completer.calls != 0 {
		t.Errorf("completer must not be called on empty index, got %d calls", f.completer.calls)
	}
}

func TestQuery_JoinsMultiplePassages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.pipeline.Ingest(ctx, []domain.Document{
		mustDoc(t, "doc1", "The sky is blue."),
		mustDoc(t, "doc2", "The sky at night."),
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	result, err := f.pipeline.Query(ctx, "Tell me about the sky")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(result.Sources))
	}
	if !strings.Contains(result.Context, contextSeparator) {
		t.Error("multiple passages must be joined with the context separator")
	}
}
