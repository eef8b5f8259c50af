package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/chunker"
	"github.com/kailas-cloud/ragdex/internal/config"
	"github.com/kailas-cloud/ragdex/internal/db"
	dbRedis "github.com/kailas-cloud/ragdex/internal/db/redis"
	"github.com/kailas-cloud/ragdex/internal/domain"
	logpkg "github.com/kailas-cloud/ragdex/internal/logger"
	"github.com/kailas-cloud/ragdex/internal/metrics"
	"github.com/kailas-cloud/ragdex/internal/repository/embcache"
	"github.com/kailas-cloud/ragdex/internal/repository/index"
	chiTransport "github.com/kailas-cloud/ragdex/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/ragdex/internal/transport/openai"
	answeruc "github.com/kailas-cloud/ragdex/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/ragdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	pipelineuc "github.com/kailas-cloud/ragdex/internal/usecase/pipeline"
	retrieveuc "github.com/kailas-cloud/ragdex/internal/usecase/retrieve"
	"github.com/kailas-cloud/ragdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ragdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("completion_model", cfg.Completion.Model),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	ctx := context.Background()

	// Embedding cache backend based on driver
	var cacheStore embcache.Store
	var cachePinger healthuc.CachePinger
	switch cfg.Cache.Driver {
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))

		cacheStore = newKVStore(store, time.Duration(cfg.Cache.TTLSec)*time.Second)
		cachePinger = store
	case "memory":
		memStore, err := embcache.NewMemoryStore(cfg.Cache.MemorySize)
		if err != nil {
			logger.Fatal("Failed to create memory cache", zap.Error(err))
		}
		cacheStore = memStore
	default:
		logger.Fatal("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
	}

	// Embedding provider + batched/cached embedding service
	provider := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	embedTimeout := time.Duration(cfg.Embedding.TimeoutSec) * time.Second
	boundedProvider := domain.NewTimeoutEmbedder(provider, embedTimeout)

	embedSvc := embeddinguc.New(boundedProvider, cfg.Embedding.BatchSize, *cfg.Embedding.Normalize, logger)
	if *cfg.Embedding.CacheOn {
		embedSvc = embedSvc.WithCache(embcache.New(
			cacheStore, cfg.Embedding.Provider, cfg.Embedding.Model,
			metrics.EmbeddingCacheTotal, logger,
		))
	}

	// Completion providers: one per purpose so metrics split answer vs hyde
	completionTimeout := time.Duration(cfg.Completion.TimeoutSec) * time.Second
	answerCompleter := newCompleter(cfg, "answer", completionTimeout, logger)
	hydeCompleter := newCompleter(cfg, "hyde", completionTimeout, logger)

	// In-memory vector index
	vectorIndex := index.NewMemory()

	retrieveSvc, err := retrieveuc.New(vectorIndex, embedSvc, hydeCompleter, retrieveuc.Config{
		TopK:           cfg.Retrieval.TopK,
		ScoreThreshold: cfg.Retrieval.ScoreThreshold,
		RerankEnabled:  cfg.Retrieval.Rerank,
		RerankTopN:     cfg.Retrieval.RerankTopN,
		QueryExpansion: cfg.Retrieval.QueryExpansion,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create retrieval service", zap.Error(err))
	}

	answerSvc := answeruc.New(answerCompleter, logger)

	pipelineSvc, err := pipelineuc.New(chunker.Config{
		Strategy:     chunker.Strategy(cfg.Chunking.Strategy),
		ChunkSize:    cfg.Chunking.ChunkSize,
		Overlap:      cfg.Chunking.Overlap,
		Separators:   cfg.Chunking.Separators,
		MinChunkSize: cfg.Chunking.MinChunkSize,
	}, embedSvc, vectorIndex, retrieveSvc, answerSvc, logger)
	if err != nil {
		logger.Fatal("Failed to create pipeline", zap.Error(err))
	}

	healthSvc := healthuc.New(provider, cachePinger, vectorIndex)

	server := chiTransport.NewServer(pipelineSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newCompleter builds a deadline-enforcing completion provider for a purpose.
func newCompleter(cfg config.Config, purpose string, timeout time.Duration, logger *zap.Logger) domain.Completer {
	base := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:      cfg.Embedding.APIKey,
		BaseURL:     cfg.Embedding.BaseURL,
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		MaxTokens:   cfg.Completion.MaxTokens,
		Purpose:     purpose,
		Logger:      logger,
	})
	return &timeoutCompleter{next: base, timeout: timeout}
}

// timeoutCompleter bounds every completion call with a deadline so a hung
// provider surfaces as domain.ErrTimeout instead of stalling the request.
type timeoutCompleter struct {
	next    domain.Completer
	timeout time.Duration
}

func (c *timeoutCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.next.Complete(ctx, system, user)
}

// kvStore adapts db.Store to the embedding cache backend, applying the
// configured TTL on writes.
type kvStore struct {
	store db.Store
	ttl   time.Duration
}

func newKVStore(store db.Store, ttl time.Duration) *kvStore {
	return &kvStore{store: store, ttl: ttl}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.store.Get(ctx, key)
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	if s.ttl > 0 {
		return s.store.SetWithTTL(ctx, key, value, s.ttl)
	}
	return s.store.Set(ctx, key, value)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
