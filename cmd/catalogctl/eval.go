package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirewise/recommender/internal/embedder"
	"github.com/hirewise/recommender/internal/eval"
	"github.com/hirewise/recommender/internal/llm"
	"github.com/hirewise/recommender/internal/recommend"
	"github.com/hirewise/recommender/internal/vectorstore"
)

var (
	evalSamplesPath string
	evalK           int
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Benchmark retrieval quality against a labeled sample file",
	Long: `eval runs every query from a JSON benchmark file through the full
pipeline and reports mean Recall@k and MAP@k. The file is an array of
{"query": "...", "relevant": ["Assessment Name", ...]} objects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(evalSamplesPath)
		if err != nil {
			return fmt.Errorf("reading benchmark file: %w", err)
		}
		var samples []eval.Sample
		if err := json.Unmarshal(data, &samples); err != nil {
			return fmt.Errorf("parsing benchmark file: %w", err)
		}

		store, err := vectorstore.NewQdrantStore(ctx, cfg.QdrantGRPCURL)
		if err != nil {
			return err
		}
		defer store.Close()

		emb := embedder.NewOllamaEmbedder(embedder.OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaEmbeddingModel,
		})

		llmClient, err := llm.NewClient(ctx, cfg)
		if err != nil {
			return err
		}

		pipeline := recommend.NewService(
			recommend.NewFetcher(emb, store, cfg.CandidateK),
			recommend.NewReranker(llmClient),
		)

		report, err := eval.Evaluate(ctx, pipeline, samples, evalK)
		if err != nil {
			return err
		}

		fmt.Printf("samples: %d\n", report.Samples)
		fmt.Printf("mean recall@%d: %.4f\n", report.K, report.MeanRecallAtK)
		fmt.Printf("MAP@%d: %.4f\n", report.K, report.MAPAtK)
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalSamplesPath, "samples", "benchmark.json", "path to the benchmark sample file")
	evalCmd.Flags().IntVar(&evalK, "k", 10, "cutoff rank for recall and MAP")
}
