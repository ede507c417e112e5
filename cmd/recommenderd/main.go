package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hirewise/recommender/internal/catalog"
	"github.com/hirewise/recommender/internal/catalog/postgres"
	"github.com/hirewise/recommender/internal/config"
	"github.com/hirewise/recommender/internal/embedder"
	"github.com/hirewise/recommender/internal/indexer"
	"github.com/hirewise/recommender/internal/llm"
	"github.com/hirewise/recommender/internal/recommend"
	"github.com/hirewise/recommender/internal/refiner"
	"github.com/hirewise/recommender/internal/scraper"
	"github.com/hirewise/recommender/internal/server"
	"github.com/hirewise/recommender/internal/vectorstore"
)

func main() {
	// Set up structured logging
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("failed to run server", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("starting recommendation service",
		"http_port", cfg.HTTPPort,
		"environment", cfg.Environment,
	)

	// Initialize PostgreSQL
	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	slog.Info("connected to PostgreSQL")

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	assessmentRepo := postgres.NewAssessmentRepo(db)

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(ctx, cfg.QdrantGRPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer vectorStore.Close()
	slog.Info("connected to Qdrant")

	// Initialize Ollama embedder
	embed := embedder.NewOllamaEmbedder(embedder.OllamaConfig{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaEmbeddingModel,
	})
	slog.Info("initialized embedder", "model", cfg.OllamaEmbeddingModel)

	// Initialize the ranking LLM
	llmClient, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	slog.Info("initialized LLM", "provider", cfg.LLMProvider)

	// Wire the pipeline
	pipeline := recommend.NewService(
		recommend.NewFetcher(embed, vectorStore, cfg.CandidateK),
		recommend.NewReranker(llmClient),
	)

	refinerOpts := []refiner.Option{}
	if cfg.UseHeadless {
		refinerOpts = append(refinerOpts, refiner.WithHeadlessFetcher(scraper.NewHeadlessFetcher(30*time.Second)))
	}
	queryRefiner := refiner.New(llmClient, refinerOpts...)

	reindexer := indexer.New(assessmentRepo, embed, vectorStore)

	httpServer, err := server.NewHTTPServer(server.HTTPServerConfig{
		Port:           cfg.HTTPPort,
		Logger:         slog.Default(),
		AllowedOrigins: []string{"*"}, // Configure in production
		AdminAPIKey:    cfg.AdminAPIKey,
		Pipeline:       pipeline,
		Refiner:        queryRefiner,
		Reindexer:      reindexer,
		Pinger:         db,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown HTTP server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

// Ensure interfaces are satisfied at compile time
var (
	_ catalog.AssessmentRepository = (*postgres.AssessmentRepo)(nil)
	_ vectorstore.VectorStore      = (*vectorstore.QdrantStore)(nil)
	_ embedder.Embedder            = (*embedder.OllamaEmbedder)(nil)
	_ llm.LLM                      = (*llm.OllamaClient)(nil)
	_ recommend.Pipeline           = (*recommend.Service)(nil)
	_ server.Reindexer             = (*indexer.Indexer)(nil)
	_ server.Pinger                = (*postgres.DB)(nil)
)
