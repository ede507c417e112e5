package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrEmptyQuery is returned for blank input before any network call is made.
var ErrEmptyQuery = errors.New("query is empty")

// Pipeline is the recommendation entry point used by the HTTP layer and the
// evaluation harness.
type Pipeline interface {
	Recommend(ctx context.Context, query string) ([]Recommendation, error)
}

// Service wires the fetcher and reranker into the full pipeline.
type Service struct {
	fetcher  *Fetcher
	reranker *Reranker
}

// NewService creates the recommendation service.
func NewService(fetcher *Fetcher, reranker *Reranker) *Service {
	return &Service{fetcher: fetcher, reranker: reranker}
}

// Recommend runs retrieve-and-rerank for a query. An unusable reranker reply
// yields an empty result, not an error; errors are reserved for empty input
// and retrieval faults.
func (s *Service) Recommend(ctx context.Context, query string) ([]Recommendation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	candidates, err := s.fetcher.FetchCandidates(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching candidates: %w", err)
	}
	if len(candidates) == 0 {
		slog.Info("no candidates retrieved", "query", query)
		return nil, nil
	}

	decisions := s.reranker.Rerank(ctx, query, candidates)
	recs := Assemble(decisions, candidates)

	slog.Info("recommendation pipeline complete",
		"query", query,
		"candidates", len(candidates),
		"decisions", len(decisions),
		"results", len(recs))

	return recs, nil
}

var _ Pipeline = (*Service)(nil)
