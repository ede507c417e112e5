package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hirewise/recommender/internal/catalog/postgres"
	"github.com/hirewise/recommender/internal/scraper"
)

var scrapeMaxResults int

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the assessment catalog into the database",
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

		s := scraper.New(scraper.Config{
			BaseURL:  cfg.CatalogBaseURL,
			Delay:    cfg.ScrapeDelay,
			MaxPages: cfg.ScrapeMaxPages,
		})

		slog.Info("scraping catalog", "base_url", cfg.CatalogBaseURL, "max_pages", cfg.ScrapeMaxPages)
		assessments, err := s.ScrapeAll(ctx, scrapeMaxResults)
		if err != nil {
			return err
		}
		slog.Info("scrape complete", "assessments", len(assessments))

		repo := postgres.NewAssessmentRepo(db)
		if err := repo.Upsert(ctx, assessments); err != nil {
			return err
		}

		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		slog.Info("catalog updated", "total", count)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&scrapeMaxResults, "max", 0, "stop after this many assessments (0 = all)")
}
