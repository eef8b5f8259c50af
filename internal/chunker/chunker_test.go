package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func mustDoc(t *testing.T, id, content string) domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(id, content, "", nil)
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	return doc
}

func contents(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i := range chunks {
		out[i] = chunks[i].Content()
	}
	return out
}

func TestValidate_UnknownStrategy(t *testing.T) {
	cfg := Config{Strategy: "sliding", ChunkSize: 100}
	if err := cfg.Validate(); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate_OverlapNotSmallerThanChunkSize(t *testing.T) {
	cfg := Config{Strategy: StrategyFixed, ChunkSize: 100, Overlap: 100}
	if err := cfg.Validate(); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate_NonPositiveChunkSize(t *testing.T) {
	cfg := Config{Strategy: StrategyRecursive, ChunkSize: 0}
	if err := cfg.Validate(); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestChunk_Fixed_WindowAndOverlap(t *testing.T) {
	doc := mustDoc(t, "doc1", strings.Repeat("a", 250))
	cfg := Config{Strategy: StrategyFixed, ChunkSize: 100, Overlap: 20}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStarts := []int{0, 80, 160}
	wantLens := []int{100, 100, 90}
	if len(chunks) != len(wantStarts) {
		t.Fatalf("expected %d chunks, got %d", len(wantStarts), len(chunks))
	}
	for i := range chunks {
		c := &chunks[i]
		if c.Start() != wantStarts[i] {
			t.Errorf("chunk %d: expected start %d, got %d", i, wantStarts[i], c.Start())
		}
		if len(c.Content()) != wantLens[i] {
			t.Errorf("chunk %d: expected length %d, got %d", i, wantLens[i], len(c.Content()))
		}
		if c.End()-c.Start() != len(c.Content()) {
			t.Errorf("chunk %d: offsets [%d,%d) disagree with content length %d",
				i, c.Start(), c.End(), len(c.Content()))
		}
	}
}

func TestChunk_Fixed_IDsAndDocumentID(t *testing.T) {
	doc := mustDoc(t, "doc1", strings.Repeat("x", 10))
	cfg := Config{Strategy: StrategyFixed, ChunkSize: 4}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantIDs := []string{"doc1_chunk_0", "doc1_chunk_1", "doc1_chunk_2"}
	if len(chunks) != len(wantIDs) {
		t.Fatalf("expected %d chunks, got %d", len(wantIDs), len(chunks))
	}
	for i := range chunks {
		if chunks[i].ID() != wantIDs[i] {
			t.Errorf("chunk %d: expected id %q, got %q", i, wantIDs[i], chunks[i].ID())
		}
		if chunks[i].DocumentID() != "doc1" {
			t.Errorf("chunk %d: expected document id doc1, got %q", i, chunks[i].DocumentID())
		}
	}
}

func TestChunk_Recursive_GreedyAccumulation(t *testing.T) {
	doc := mustDoc(t, "doc1", "aaa bbb ccc ddd")
	cfg := Config{Strategy: StrategyRecursive, ChunkSize: 7}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"aaa ", "bbb ", "ccc ddd"}
	got := contents(chunks)
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestChunk_Recursive_LosslessReconstruction(t *testing.T) {
	text := "First paragraph with some words.\n\nSecond paragraph. It has two sentences!\n" +
		"And a third line\n\nFinal paragraph without trailing newline"
	doc := mustDoc(t, "doc1", text)
	cfg := Config{Strategy: StrategyRecursive, ChunkSize: 30}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sb strings.Builder
	prevEnd := 0
	for i := range chunks {
		c := &chunks[i]
		if c.Start() != prevEnd {
			t.Errorf("chunk %d: expected start %d, got %d", i, prevEnd, c.Start())
		}
		if len(c.Content()) > cfg.ChunkSize {
			t.Errorf("chunk %d exceeds chunk size: %d > %d", i, len(c.Content()), cfg.ChunkSize)
		}
		sb.WriteString(c.Content())
		prevEnd = c.End()
	}

	if sb.String() != text {
		t.Errorf("concatenated chunks do not reconstruct the document:\ngot:  %q\nwant: %q", sb.String(), text)
	}
}

func TestChunk_Recursive_HardCutWithoutSeparators(t *testing.T) {
	doc := mustDoc(t, "doc1", "abcdefghij")
	cfg := Config{Strategy: StrategyRecursive, ChunkSize: 3}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"abc", "def", "ghi", "j"}
	got := contents(chunks)
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestChunk_Semantic_GroupsParagraphs(t *testing.T) {
	doc := mustDoc(t, "doc1", "para one.\n\npara two.\n\npara three.")
	cfg := Config{Strategy: StrategySemantic, ChunkSize: 25}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"para one.\n\npara two.", "para three."}
	got := contents(chunks)
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestChunk_Semantic_MinChunkSizeDropsRunt(t *testing.T) {
	doc := mustDoc(t, "doc1", "para one.\n\npara two.\n\npara three.")
	cfg := Config{Strategy: StrategySemantic, ChunkSize: 25, MinChunkSize: 15}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 1 {
		t.Fatalf("expected runt chunk to be dropped, got %d chunks", len(chunks))
	}
	if chunks[0].Content() != "para one.\n\npara two." {
		t.Errorf("unexpected surviving chunk: %q", chunks[0].Content())
	}
}

func TestChunk_Structure_SectionsByHeader(t *testing.T) {
	text := "intro text\n\n# Title One\nbody one\n\n## Sub Two\nbody two"
	doc := mustDoc(t, "doc1", text)
	cfg := Config{Strategy: StrategyStructure, ChunkSize: 1000}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"intro text",
		"Title One\n\nbody one",
		"Sub Two\n\nbody two",
	}
	got := contents(chunks)
	if len(got) != len(want) {
		t.Fatalf("expected %d sections, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if chunks[0].ID() != "doc1_section_0" {
		t.Errorf("expected id doc1_section_0, got %q", chunks[0].ID())
	}
	if title := chunks[1].Metadata()["section_title"]; title != "Title One" {
		t.Errorf("expected section_title %q, got %q", "Title One", title)
	}
	if _, ok := chunks[0].Metadata()["section_title"]; ok {
		t.Error("preamble section should not carry a section_title")
	}
}

func TestChunk_Structure_FallsBackToFixedWithoutHeaders(t *testing.T) {
	doc := mustDoc(t, "doc1", strings.Repeat("b", 10))
	cfg := Config{Strategy: StrategyStructure, ChunkSize: 4}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected fixed fallback to produce 3 chunks, got %d", len(chunks))
	}
	if chunks[0].ID() != "doc1_chunk_0" {
		t.Errorf("expected fallback chunk id doc1_chunk_0, got %q", chunks[0].ID())
	}
}

func TestChunk_MetadataAndTokenCount(t *testing.T) {
	doc, err := domain.NewDocument("doc1", "hello world", "notes.txt", map[string]string{"lang": "en"})
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	cfg := Config{Strategy: StrategyFixed, ChunkSize: 100}

	chunks, err := Chunk(doc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	c := &chunks[0]
	if c.Metadata()["lang"] != "en" {
		t.Errorf("expected document metadata to propagate, got %v", c.Metadata())
	}
	if c.Metadata()["source"] != "notes.txt" {
		t.Errorf("expected source metadata, got %v", c.Metadata())
	}
	// "hello world" is 11 chars, chars/4 rounded up.
	if c.TokenCount() != 3 {
		t.Errorf("expected token count 3, got %d", c.TokenCount())
	}
}

func TestEstimateTokens_MinimumOne(t *testing.T) {
	if got := estimateTokens("ab"); got != 1 {
		t.Errorf("expected 1 token for short text, got %d", got)
	}
	if got := estimateTokens(""); got != 0 {
		t.Errorf("expected 0 tokens for empty text, got %d", got)
	}
}
