package embcache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/ragdex/internal/db"
)

// DefaultMemoryCacheSize bounds the in-memory cache when no size is configured.
const DefaultMemoryCacheSize = 10000

// MemoryStore is an in-process LRU cache backend. Safe for concurrent use.
type MemoryStore struct {
	cache *lru.Cache[string, []byte]
}

// NewMemoryStore creates an LRU-bounded in-memory store.
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: cache}, nil
}

// Get retrieves a value by key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

// Set stores a value, evicting the least recently used entry at capacity.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.cache.Add(key, value)
	return nil
}

// Len returns the current entry count.
func (s *MemoryStore) Len() int { return s.cache.Len() }

// Purge removes all entries.
func (s *MemoryStore) Purge() { s.cache.Purge() }
