// catalogctl manages the assessment catalog: scraping, tag enrichment,
// vector indexing and retrieval benchmarking.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirewise/recommender/internal/catalog/postgres"
	"github.com/hirewise/recommender/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Manage the assessment catalog",
	Long: `catalogctl maintains the data behind the recommendation service:
it scrapes the public assessment catalog, enriches records with LLM-generated
tags, loads embeddings into the vector store, and benchmarks retrieval quality.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if verbose {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(evalCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads service configuration for a subcommand.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// connectDB opens the catalog database and makes sure the schema exists.
func connectDB(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
