// Package embcache caches embedding vectors keyed by provider, model, and text.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/db"
)

const cacheKeyPrefix = "ragdex:emb_cache:"

// Store is the consumer interface for the embedding cache backend.
// Satisfied by the in-memory LRU store and by db.Store (Redis).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Cache memoizes embedding vectors in a key-value store. Lookup failures
// and corrupt entries degrade to cache misses, never to errors.
type Cache struct {
	store      Store
	provider   string
	model      string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an embedding cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s Store, provider, model string, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		provider:   provider,
		model:      model,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the cached vector for text, if present.
func (c *Cache) Get(ctx context.Context, text string) ([]float32, bool) {
	key := c.cacheKey(text)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		c.incCache("miss")
		return nil, false
	}
	if len(data) == 0 {
		c.incCache("miss")
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		c.incCache("miss")
		return nil, false
	}

	c.incCache("hit")
	return vec, true
}

// Put stores a vector for text. Write failures are logged, not propagated.
func (c *Cache) Put(ctx context.Context, text string, vec []float32) {
	key := c.cacheKey(text)
	if err := c.store.Set(ctx, key, vectorToCacheBytes(vec)); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes provider, model, and text together so switching models
// never returns stale vectors of the wrong dimensionality.
func (c *Cache) cacheKey(text string) string {
	h := sha256.Sum256([]byte(c.provider + "\x00" + c.model + "\x00" + text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func vectorToCacheBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
