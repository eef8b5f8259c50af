package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Cache.Driver != "memory" {
		t.Errorf("expected cache driver memory, got %q", cfg.Cache.Driver)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected provider openai, got %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.BatchSize != 32 {
		t.Errorf("expected batch size 32, got %d", cfg.Embedding.BatchSize)
	}
	if cfg.Embedding.TimeoutSec != 30 {
		t.Errorf("expected embedding timeout 30s, got %d", cfg.Embedding.TimeoutSec)
	}
	if cfg.Embedding.Normalize == nil || !*cfg.Embedding.Normalize {
		t.Error("expected normalize to default to true")
	}
	if cfg.Embedding.CacheOn == nil || !*cfg.Embedding.CacheOn {
		t.Error("expected embedding cache to default to on")
	}
	if cfg.Chunking.Strategy != "recursive" {
		t.Errorf("expected recursive strategy, got %q", cfg.Chunking.Strategy)
	}
	if cfg.Chunking.ChunkSize != 1000 {
		t.Errorf("expected chunk size 1000, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("expected top_k 5, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.RerankTopN != 5 {
		t.Errorf("expected rerank_top_n to follow top_k, got %d", cfg.Retrieval.RerankTopN)
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_RedisDriverRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = "redis"
	cfg.Cache.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for redis driver without addrs")
	}
}

func TestValidate_UnknownCacheDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = "memcached"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown cache driver")
	}
}

func TestValidate_OverlapNotSmallerThanChunkSize(t *testing.T) {
	cfg := validConfig()
	cfg.Chunking.Overlap = cfg.Chunking.ChunkSize

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for overlap >= chunk size")
	}
}

func TestValidate_ScoreThresholdOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.ScoreThreshold = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for score threshold out of range")
	}
}

func TestExpandEnvVars(t *testing.T) {
	if err := os.Setenv("RAGDEX_TEST_KEY", "abc123"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Unsetenv("RAGDEX_TEST_KEY") }()

	in := []byte("api_key: ${RAGDEX_TEST_KEY}\nmodel: ${RAGDEX_TEST_MISSING:-fallback}\n")
	got := string(expandEnvVars(in))

	want := "api_key: abc123\nmodel: fallback\n"
	if got != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", got, want)
	}
}
