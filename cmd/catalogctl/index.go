package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hirewise/recommender/internal/catalog/postgres"
	"github.com/hirewise/recommender/internal/embedder"
	"github.com/hirewise/recommender/internal/indexer"
	"github.com/hirewise/recommender/internal/vectorstore"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed all catalog records and load them into the vector store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		store, err := vectorstore.NewQdrantStore(ctx, cfg.QdrantGRPCURL)
		if err != nil {
			return err
		}
		defer store.Close()

		emb := embedder.NewOllamaEmbedder(embedder.OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaEmbeddingModel,
		})

		repo := postgres.NewAssessmentRepo(db)
		indexed, err := indexer.New(repo, emb, store).Reindex(ctx)
		if err != nil {
			return err
		}

		slog.Info("indexing complete", "indexed", indexed)
		return nil
	},
}
