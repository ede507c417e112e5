package indexer

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/hirewise/recommender/internal/catalog"
	"github.com/hirewise/recommender/internal/vectorstore"
)

type fakeRepo struct {
	assessments []*catalog.Assessment
}

func (r *fakeRepo) Upsert(context.Context, []*catalog.Assessment) error { return nil }
func (r *fakeRepo) GetByID(context.Context, uuid.UUID) (*catalog.Assessment, error) {
	return nil, catalog.ErrNotFound
}
func (r *fakeRepo) ListUntagged(context.Context, int) ([]*catalog.Assessment, error) {
	return nil, nil
}
func (r *fakeRepo) UpdateTags(context.Context, uuid.UUID, []string) error { return nil }

func (r *fakeRepo) Count(context.Context) (int, error) { return len(r.assessments), nil }

func (r *fakeRepo) List(_ context.Context, limit, offset int) ([]*catalog.Assessment, error) {
	if offset >= len(r.assessments) {
		return nil, nil
	}
	end := min(offset+limit, len(r.assessments))
	return r.assessments[offset:end], nil
}

type fakeEmbedder struct{}

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text))}, nil
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, _ := e.Embed(ctx, t)
		out[i] = vec
	}
	return out, nil
}

func (e *fakeEmbedder) Dimension() int    { return 1 }
func (e *fakeEmbedder) ModelName() string { return "fake" }

type fakeStore struct {
	dimension int
	batches   [][]vectorstore.Point
}

func (s *fakeStore) EnsureCollection(_ context.Context, dim int) error {
	s.dimension = dim
	return nil
}

func (s *fakeStore) Upsert(_ context.Context, points []vectorstore.Point) error {
	s.batches = append(s.batches, points)
	return nil
}

func (s *fakeStore) Search(context.Context, []float32, int) ([]vectorstore.SearchResult, error) {
	return nil, nil
}

func (s *fakeStore) Close() error { return nil }

func TestReindex(t *testing.T) {
	repo := &fakeRepo{}
	for i := 0; i < 60; i++ {
		repo.assessments = append(repo.assessments, &catalog.Assessment{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("Assessment %02d", i),
			Description: "measures something",
			Tags:        []string{"tag"},
		})
	}

	store := &fakeStore{}
	ix := New(repo, &fakeEmbedder{}, store)

	indexed, err := ix.Reindex(context.Background())
	if err != nil {
		t.Fatalf("Reindex returned error: %v", err)
	}
	if indexed != 60 {
		t.Errorf("expected 60 indexed, got %d", indexed)
	}
	if store.dimension != 1 {
		t.Errorf("expected collection dimension 1, got %d", store.dimension)
	}

	// 60 records in upsert batches of 25: 25, 25, 10.
	if len(store.batches) != 3 {
		t.Fatalf("expected 3 upsert batches, got %d", len(store.batches))
	}
	if len(store.batches[2]) != 10 {
		t.Errorf("expected final batch of 10, got %d", len(store.batches[2]))
	}

	first := store.batches[0][0]
	if first.ID != repo.assessments[0].ID.String() {
		t.Errorf("point ID should be the catalog record ID")
	}
	if first.Payload["name"] != "Assessment 00" {
		t.Errorf("unexpected payload name: %q", first.Payload["name"])
	}
	if first.Payload["duration_minutes"] != "0" {
		t.Errorf("unexpected duration_minutes: %q", first.Payload["duration_minutes"])
	}
	if len(first.Tags) != 1 || first.Tags[0] != "tag" {
		t.Errorf("tags not carried onto point: %v", first.Tags)
	}
}
