// Package recommend implements the retrieve-and-rerank recommendation
// pipeline: embed the query, pull nearest catalog entries from the vector
// store, let an LLM pick and justify the best ones, then validate its output
// against the candidate set before anything reaches the caller.
package recommend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hirewise/recommender/internal/embedder"
	"github.com/hirewise/recommender/internal/vectorstore"
)

// DefaultCandidateK is how many nearest neighbors are retrieved for reranking.
const DefaultCandidateK = 50

// Candidate is one retrieved assessment, hydrated from the point payload. The
// candidate set lives for a single request only.
type Candidate struct {
	StoreID         string
	Name            string
	Link            string
	Description     string
	Duration        string
	DurationMinutes int
	JobLevels       string
	RemoteSupport   string
	AdaptiveSupport string
	TestType        string
	Tags            []string
	Score           float32
}

// Fetcher retrieves reranking candidates for a query.
type Fetcher struct {
	embedder embedder.Embedder
	store    vectorstore.VectorStore
	topK     int
}

// NewFetcher creates a Fetcher. topK <= 0 falls back to DefaultCandidateK.
func NewFetcher(emb embedder.Embedder, store vectorstore.VectorStore, topK int) *Fetcher {
	if topK <= 0 {
		topK = DefaultCandidateK
	}
	return &Fetcher{embedder: emb, store: store, topK: topK}
}

// FetchCandidates embeds the query and returns the nearest assessments,
// most-similar first.
func (f *Fetcher) FetchCandidates(ctx context.Context, query string) ([]Candidate, error) {
	vector, err := f.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := f.store.Search(ctx, vector, f.topK)
	if err != nil {
		return nil, fmt.Errorf("searching vector store: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		minutes, _ := strconv.Atoi(r.Payload["duration_minutes"])
		candidates = append(candidates, Candidate{
			StoreID:         r.ID,
			Name:            r.Payload["name"],
			Link:            r.Payload["link"],
			Description:     r.Payload["description"],
			Duration:        r.Payload["duration"],
			DurationMinutes: minutes,
			JobLevels:       r.Payload["job_levels"],
			RemoteSupport:   r.Payload["remote"],
			AdaptiveSupport: r.Payload["adaptive"],
			TestType:        r.Payload["test_type"],
			Tags:            r.Tags,
			Score:           r.Score,
		})
	}

	return candidates, nil
}
