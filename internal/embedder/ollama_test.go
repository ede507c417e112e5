package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeOllama(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		vec := make([]float64, dim)
		for i := range vec {
			vec[i] = float64(len(req.Prompt)) // deterministic per input
		}
		json.NewEncoder(w).Encode(ollamaResponse{Embedding: vec})
	}))
}

func TestOllamaEmbedder_Defaults(t *testing.T) {
	e := NewOllamaEmbedder(OllamaConfig{})
	if e.ModelName() != "all-minilm" {
		t.Errorf("expected default model all-minilm, got %s", e.ModelName())
	}
	if e.Dimension() != 384 {
		t.Errorf("expected default dimension 384, got %d", e.Dimension())
	}
}

func TestOllamaEmbedder_Embed(t *testing.T) {
	srv := newFakeOllama(t, 384)
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaConfig{BaseURL: srv.URL})
	vec, err := e.Embed(context.Background(), "Java developer assessment")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vec) != 384 {
		t.Errorf("expected 384-dim vector, got %d", len(vec))
	}
}

func TestOllamaEmbedder_EmbedBatch(t *testing.T) {
	srv := newFakeOllama(t, 8)
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaConfig{BaseURL: srv.URL, Dimension: 8})
	texts := []string{"one", "two", "three", "four", "five"}
	vecs, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch returned error: %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 8 {
			t.Errorf("vector %d has dimension %d, want 8", i, len(v))
		}
	}
	// Order must match input order: "three" is the longest input here.
	if vecs[2][0] != 5 {
		t.Errorf("expected vector for %q at index 2, got first element %f", "three", vecs[2][0])
	}
}

func TestModelDimension_Unknown(t *testing.T) {
	if d := ModelDimension("mystery-model"); d != DefaultOllamaDimension {
		t.Errorf("expected fallback %d, got %d", DefaultOllamaDimension, d)
	}
}
