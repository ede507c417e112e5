package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"
)

const (
	// CollectionName is the single collection holding all indexed assessments.
	CollectionName = "assessments"

	tagsPayloadKey = "tags"

	// reconnectBackoff is the fixed delay before the single reconnect attempt
	// after a transport failure.
	reconnectBackoff = 3 * time.Second
)

// QdrantStore implements VectorStore using Qdrant
type QdrantStore struct {
	mu     sync.Mutex
	client *qdrant.Client
	host   string
	port   int
}

// NewQdrantStore creates a new Qdrant vector store client.
// url should be in format "host:port" (e.g., "localhost:6334")
func NewQdrantStore(ctx context.Context, url string) (*QdrantStore, error) {
	host, portStr, err := net.SplitHostPort(url)
	if err != nil {
		// If no port specified, assume default
		host = url
		portStr = "6334"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port in qdrant url: %w", err)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &QdrantStore{client: client, host: host, port: port}, nil
}

// Close closes the Qdrant client connection
func (s *QdrantStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Close()
}

// reconnect replaces the client after a transport failure. Connectivity
// faults are retried exactly once with a fixed backoff; anything past that
// propagates to the caller.
func (s *QdrantStore) reconnect(ctx context.Context) error {
	select {
	case <-time.After(reconnectBackoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: s.host,
		Port: s.port,
	})
	if err != nil {
		return fmt.Errorf("failed to reconnect to qdrant: %w", err)
	}

	_ = s.client.Close()
	s.client = client
	return nil
}

func (s *QdrantStore) getClient() *qdrant.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// EnsureCollection creates the assessment collection if it does not exist
func (s *QdrantStore) EnsureCollection(ctx context.Context, dimension int) error {
	exists, err := s.getClient().CollectionExists(ctx, CollectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.getClient().CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: CollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// Upsert inserts or updates points in the vector store
func (s *QdrantStore) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		payload := make(map[string]*qdrant.Value, len(p.Payload)+1)
		for k, v := range p.Payload {
			payload[k] = qdrant.NewValueString(v)
		}

		tagValues := make([]*qdrant.Value, len(p.Tags))
		for j, tag := range p.Tags {
			tagValues[j] = qdrant.NewValueString(tag)
		}
		payload[tagsPayloadKey] = qdrant.NewValueList(&qdrant.ListValue{Values: tagValues})

		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: payload,
		}
	}

	_, err := s.getClient().Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: CollectionName,
		Points:         qdrantPoints,
	})
	if err != nil {
		slog.Warn("qdrant upsert failed, reconnecting", "error", err)
		if rerr := s.reconnect(ctx); rerr != nil {
			return fmt.Errorf("failed to upsert points: %w", err)
		}
		if _, err = s.getClient().Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: CollectionName,
			Points:         qdrantPoints,
		}); err != nil {
			return fmt.Errorf("failed to upsert points after reconnect: %w", err)
		}
	}

	return nil
}

// Search performs similarity search
func (s *QdrantStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error) {
	query := &qdrant.QueryPoints{
		CollectionName: CollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	}

	response, err := s.getClient().Query(ctx, query)
	if err != nil {
		slog.Warn("qdrant search failed, reconnecting", "error", err)
		if rerr := s.reconnect(ctx); rerr != nil {
			return nil, fmt.Errorf("failed to search: %w", err)
		}
		if response, err = s.getClient().Query(ctx, query); err != nil {
			return nil, fmt.Errorf("failed to search after reconnect: %w", err)
		}
	}

	results := make([]SearchResult, 0, len(response))
	for _, point := range response {
		result := SearchResult{
			ID:      point.Id.GetUuid(),
			Score:   point.Score,
			Payload: make(map[string]string),
		}

		for k, v := range point.Payload {
			if k == tagsPayloadKey {
				for _, tv := range v.GetListValue().GetValues() {
					result.Tags = append(result.Tags, tv.GetStringValue())
				}
				continue
			}
			result.Payload[k] = v.GetStringValue()
		}

		results = append(results, result)
	}

	return results, nil
}

// Ensure QdrantStore implements VectorStore
var _ VectorStore = (*QdrantStore)(nil)
