// Package index provides the in-memory chunk vector index.
//
// This is a deliberate flat index (no HNSW/IVF). A production-grade
// replacement must preserve the contract: descending cosine top-K with a
// stable insertion-order tie-break.
package index

import (
	"context"
	"sort"
	"sync"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

type entry struct {
	chunkID    string
	documentID string
	vector     []float32
	content    string
	metadata   map[string]string
}

// Memory is an in-memory vector index safe for concurrent use.
// The lock guards only map/slice mutation; it is never held across a
// suspension point.
type Memory struct {
	mu      sync.RWMutex
	entries []entry
	byID    map[string]int // chunkID -> position in entries
	byDoc   map[string][]string
}

// NewMemory creates an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{
		byID:  make(map[string]int),
		byDoc: make(map[string][]string),
	}
}

// Add inserts or overwrites an entry. Overwriting keeps the original
// insertion position so tie-breaking stays deterministic.
func (m *Memory) Add(_ context.Context, chunkID, documentID string, vector []float32, content string, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{chunkID: chunkID, documentID: documentID, vector: vector, content: content, metadata: metadata}
	if pos, ok := m.byID[chunkID]; ok {
		m.entries[pos] = e
		return nil
	}
	m.byID[chunkID] = len(m.entries)
	m.entries = append(m.entries, e)
	m.byDoc[documentID] = append(m.byDoc[documentID], chunkID)
	return nil
}

// Search returns up to topK results sorted descending by cosine similarity.
// Ties break by insertion order (first inserted wins). A zero query vector
// scores 0 against everything.
func (m *Memory) Search(_ context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(m.entries))
	for i := range m.entries {
		e := &m.entries[i]
		score := domain.CosineSimilarity(vector, e.vector)
		results = append(results, domain.NewSearchResult(e.chunkID, score, e.content, e.metadata))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// DeleteDocument removes all entries belonging to a document.
func (m *Memory) DeleteDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids, ok := m.byDoc[documentID]
	if !ok {
		return nil
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := m.entries[:0]
	for _, e := range m.entries {
		if _, gone := drop[e.chunkID]; !gone {
			kept = append(kept, e)
		}
	}
	m.entries = kept

	m.byID = make(map[string]int, len(m.entries))
	for i, e := range m.entries {
		m.byID[e.chunkID] = i
	}
	delete(m.byDoc, documentID)
	return nil
}

// Clear removes all entries.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	m.byID = make(map[string]int)
	m.byDoc = make(map[string][]string)
	return nil
}

// Size returns the number of indexed chunks.
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
