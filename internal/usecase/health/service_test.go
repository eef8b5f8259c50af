package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

type mockIndexSizer struct {
	size int
}

func (m *mockIndexSizer) Size() int { return m.size }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockEmbeddingChecker{}, &mockCachePinger{}, &mockIndexSizer{size: 42})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["embedding"] != CheckOK {
		t.Errorf("expected embedding %q, got %q", CheckOK, r.Checks["embedding"])
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
	if r.IndexedChunks != 42 {
		t.Errorf("expected 42 indexed chunks, got %d", r.IndexedChunks)
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(&mockEmbeddingChecker{err: errors.New("api down")}, &mockCachePinger{}, &mockIndexSizer{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks["embedding"])
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockEmbeddingChecker{}, &mockCachePinger{err: errors.New("conn refused")}, &mockIndexSizer{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_NoCacheConfigured(t *testing.T) {
	svc := New(&mockEmbeddingChecker{}, nil, &mockIndexSizer{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when no cache backend is wired")
	}
}
