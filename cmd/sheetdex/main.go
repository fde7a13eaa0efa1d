package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sheetdex/internal/config"
	dbRedis "github.com/kailas-cloud/sheetdex/internal/db/redis"
	"github.com/kailas-cloud/sheetdex/internal/domain"
	"github.com/kailas-cloud/sheetdex/internal/domain/lexicon"
	"github.com/kailas-cloud/sheetdex/internal/domain/query"
	"github.com/kailas-cloud/sheetdex/internal/domain/rowdoc"
	"github.com/kailas-cloud/sheetdex/internal/domain/tagging"
	logpkg "github.com/kailas-cloud/sheetdex/internal/logger"
	"github.com/kailas-cloud/sheetdex/internal/metrics"
	"github.com/kailas-cloud/sheetdex/internal/repository/embcache"
	"github.com/kailas-cloud/sheetdex/internal/repository/rowindex"
	chiTransport "github.com/kailas-cloud/sheetdex/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/sheetdex/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/sheetdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/sheetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sheetdex/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/sheetdex/internal/usecase/upload"
	"github.com/kailas-cloud/sheetdex/internal/version"
)

// embedder is what the row index needs from an embedder chain: single and batch calls.
type embedder interface {
	domain.Embedder
	domain.BatchEmbedder
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic("failed to load .env: " + err.Error())
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sheetdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Business lexicon is compiled once and shared read-only.
	lx, err := lexicon.New()
	if err != nil {
		logger.Fatal("Failed to compile business lexicon", zap.Error(err))
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Password:   cfg.Database.Password,
		ClientName: "sheetdex",
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	docEmbedder := buildEmbedder(base, &cfg, cfg.Embedding.DocumentInstruction, store, logger)
	queryEmbedder := buildEmbedder(base, &cfg, cfg.Embedding.QueryInstruction, store, logger)
	logger.Info("Embedders created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	rowIndex, err := rowindex.New(store, docEmbedder, queryEmbedder, rowindex.Config{
		KeyPrefix:  cfg.Index.KeyPrefix,
		Dimensions: cfg.Embedding.Dimensions,
		HNSW: rowindex.HNSWConfig{
			M:           cfg.Index.HNSWM,
			EFConstruct: cfg.Index.HNSWEFConstruct,
		},
		Workers:   cfg.Index.Workers,
		BatchSize: cfg.Embedding.BatchSize,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create row index", zap.Error(err))
	}
	defer rowIndex.Release()

	builder := rowdoc.NewBuilder(tagging.New(lx), logger)
	uploadSvc := uploaduc.New(rowIndex, builder, uploaduc.Config{
		Limits: uploaduc.Limits{
			MaxBytes: cfg.Upload.MaxBytes,
			MaxRows:  cfg.Upload.MaxRows,
		},
		PreviewRows:    cfg.Upload.PreviewRows,
		DefaultDataset: cfg.Index.DefaultDataset,
	}, logger)
	searchSvc := searchuc.New(rowIndex, query.NewProcessor(lx))
	healthSvc := healthuc.New(store, base)

	server := chiTransport.NewServer(uploadSvc, searchSvc, healthSvc, chiTransport.Config{
		MaxUploadBytes: cfg.Upload.MaxBytes,
		MaxQueryLength: cfg.Query.MaxLength,
		DefaultK:       cfg.Query.DefaultK,
		MaxK:           cfg.Query.MaxK,
		DefaultDataset: cfg.Index.DefaultDataset,
	}, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction.
// The instruction is outermost so cache keys include it.
func buildEmbedder(
	base *openaiEmb.Embedder,
	cfg *config.Config,
	instruction string,
	store *dbRedis.Store,
	logger *zap.Logger,
) embedder {
	// Model and dimensions are part of the key: switching either must not reuse vectors.
	prefix := fmt.Sprintf("%semb_cache:%s:%d:", cfg.Index.KeyPrefix, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	cached := embcache.New(base, store, metrics.EmbeddingCacheTotal, logger).
		WithPrefix(prefix).
		WithTTL(time.Duration(cfg.Embedding.CacheTTLHours) * time.Hour)

	instrumented := embeddinguc.NewInstrumentedEmbedder(
		cached, cfg.Embedding.Provider, cfg.Embedding.Model, logger,
	).WithMaxBatchSize(cfg.Embedding.BatchSize)

	if instruction != "" {
		return domain.NewInstructionEmbedder(instrumented, instruction)
	}
	return instrumented
}
