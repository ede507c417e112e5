// Package eval measures retrieval quality of the recommendation pipeline
// against a labeled benchmark of hiring queries.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hirewise/recommender/internal/recommend"
)

// Sample is one labeled benchmark query: the input and the names of the
// assessments a correct system should return.
type Sample struct {
	Query         string   `json:"query"`
	RelevantNames []string `json:"relevant"`
}

// Report aggregates metrics over a benchmark run.
type Report struct {
	K             int
	Samples       int
	MeanRecallAtK float64
	MAPAtK        float64
}

// RecallAtK is the fraction of relevant items found in the top k results.
func RecallAtK(results, relevant []string, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	if k < len(results) {
		results = results[:k]
	}

	relevantSet := nameSet(relevant)
	hits := 0
	for _, name := range results {
		if relevantSet[normalizeName(name)] {
			hits++
		}
	}
	return float64(hits) / float64(len(relevant))
}

// AveragePrecisionAtK is precision averaged over the rank positions of hits
// in the top k, normalized by min(|relevant|, k).
func AveragePrecisionAtK(results, relevant []string, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	if k < len(results) {
		results = results[:k]
	}

	relevantSet := nameSet(relevant)
	hits := 0
	sum := 0.0
	for i, name := range results {
		if relevantSet[normalizeName(name)] {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}

	denom := min(len(relevant), k)
	return sum / float64(denom)
}

// Evaluate runs every sample through the pipeline and reports mean Recall@k
// and MAP@k. Per-sample failures count as zero rather than aborting the run.
func Evaluate(ctx context.Context, pipeline recommend.Pipeline, samples []Sample, k int) (*Report, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no benchmark samples")
	}
	if k <= 0 {
		k = recommend.MaxResults
	}

	recallSum := 0.0
	apSum := 0.0
	for _, sample := range samples {
		recs, err := pipeline.Recommend(ctx, sample.Query)
		if err != nil {
			slog.Warn("benchmark query failed", "query", sample.Query, "error", err)
			continue
		}

		names := make([]string, len(recs))
		for i, r := range recs {
			names[i] = r.Name
		}

		recall := RecallAtK(names, sample.RelevantNames, k)
		ap := AveragePrecisionAtK(names, sample.RelevantNames, k)
		recallSum += recall
		apSum += ap

		slog.Info("benchmark sample scored",
			"query", sample.Query,
			"recall", recall,
			"ap", ap,
			"results", len(names))
	}

	n := float64(len(samples))
	return &Report{
		K:             k,
		Samples:       len(samples),
		MeanRecallAtK: recallSum / n,
		MAPAtK:        apSum / n,
	}, nil
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[normalizeName(n)] = true
	}
	return set
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
