// Package indexer embeds catalog records and loads them into the vector store.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hirewise/recommender/internal/catalog"
	"github.com/hirewise/recommender/internal/embedder"
	"github.com/hirewise/recommender/internal/vectorstore"
)

const (
	// upsertBatchSize is the number of points sent to the vector store per call.
	upsertBatchSize = 25

	// listPageSize is how many catalog records are pulled per repository page.
	listPageSize = 100
)

// Indexer embeds catalog records and upserts them as vector points.
type Indexer struct {
	repo     catalog.AssessmentRepository
	embedder embedder.Embedder
	store    vectorstore.VectorStore
}

// New creates an Indexer.
func New(repo catalog.AssessmentRepository, emb embedder.Embedder, store vectorstore.VectorStore) *Indexer {
	return &Indexer{repo: repo, embedder: emb, store: store}
}

// Reindex walks the entire catalog, embeds every record, and upserts the
// points in batches. The collection is created if missing. Returns the number
// of records indexed.
func (ix *Indexer) Reindex(ctx context.Context) (int, error) {
	if err := ix.store.EnsureCollection(ctx, ix.embedder.Dimension()); err != nil {
		return 0, fmt.Errorf("ensuring collection: %w", err)
	}

	total, err := ix.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting assessments: %w", err)
	}
	slog.Info("reindexing catalog", "total", total, "model", ix.embedder.ModelName())

	indexed := 0
	for offset := 0; ; offset += listPageSize {
		assessments, err := ix.repo.List(ctx, listPageSize, offset)
		if err != nil {
			return indexed, fmt.Errorf("listing assessments at offset %d: %w", offset, err)
		}
		if len(assessments) == 0 {
			break
		}

		for start := 0; start < len(assessments); start += upsertBatchSize {
			end := min(start+upsertBatchSize, len(assessments))
			batch := assessments[start:end]

			if err := ix.indexBatch(ctx, batch); err != nil {
				return indexed, err
			}
			indexed += len(batch)
			slog.Info("indexed batch", "indexed", indexed, "total", total)
		}
	}

	return indexed, nil
}

func (ix *Indexer) indexBatch(ctx context.Context, batch []*catalog.Assessment) error {
	texts := make([]string, len(batch))
	for i, a := range batch {
		texts[i] = a.EmbeddingText()
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding batch: %w", err)
	}

	points := make([]vectorstore.Point, len(batch))
	for i, a := range batch {
		points[i] = vectorstore.Point{
			ID:      a.ID.String(),
			Vector:  vectors[i],
			Payload: payloadFor(a),
			Tags:    a.Tags,
		}
	}

	if err := ix.store.Upsert(ctx, points); err != nil {
		return fmt.Errorf("upserting batch: %w", err)
	}
	return nil
}

// payloadFor builds the metadata carried on each point. Search hits are served
// from this payload alone, so everything the recommendation response needs is
// here.
func payloadFor(a *catalog.Assessment) map[string]string {
	return map[string]string{
		"name":             a.Name,
		"link":             a.Link,
		"description":      a.Description,
		"duration":         a.Duration,
		"duration_minutes": strconv.Itoa(a.DurationMinutes),
		"job_levels":       a.JobLevels,
		"remote":           a.RemoteSupport,
		"adaptive":         a.AdaptiveSupport,
		"test_type":        a.TestType,
	}
}
