package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hirewise/recommender/internal/catalog/postgres"
	"github.com/hirewise/recommender/internal/llm"
	"github.com/hirewise/recommender/internal/tagger"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Generate tags for untagged catalog records",
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

		llmClient, err := llm.NewClient(ctx, cfg)
		if err != nil {
			return err
		}

		repo := postgres.NewAssessmentRepo(db)
		tagged, err := tagger.New(llmClient, repo).TagUntagged(ctx)
		if err != nil {
			return err
		}

		slog.Info("enrichment complete", "tagged", tagged)
		return nil
	},
}
