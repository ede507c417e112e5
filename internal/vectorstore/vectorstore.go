// Package vectorstore provides interfaces and implementations for vector similarity search.
package vectorstore

import (
	"context"
)

// Point is an indexed assessment: a stable catalog ID, its embedding, and the
// full metadata payload carried back verbatim on search hits.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]string
	Tags    []string
}

// SearchResult represents a similarity search hit with metadata passthrough.
type SearchResult struct {
	ID      string
	Score   float32
	Payload map[string]string
	Tags    []string
}

// VectorStore defines the interface for vector storage operations
type VectorStore interface {
	// EnsureCollection creates the assessment collection if it does not exist.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert inserts or updates points in the vector store.
	Upsert(ctx context.Context, points []Point) error

	// Search returns the topK nearest neighbors of vector, most-similar
	// first, with payloads included.
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)

	// Close releases the underlying connection.
	Close() error
}
