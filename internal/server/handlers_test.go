package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hirewise/recommender/internal/recommend"
)

type fakePipeline struct {
	recs []recommend.Recommendation
	err  error
}

func (p *fakePipeline) Recommend(_ context.Context, query string) ([]recommend.Recommendation, error) {
	if strings.TrimSpace(query) == "" {
		return nil, recommend.ErrEmptyQuery
	}
	return p.recs, p.err
}

func newTestServer(t *testing.T, pipeline recommend.Pipeline) *HTTPServer {
	t.Helper()
	s, err := NewHTTPServer(HTTPServerConfig{
		Port:     0,
		Pipeline: pipeline,
	})
	if err != nil {
		t.Fatalf("NewHTTPServer returned error: %v", err)
	}
	return s
}

func postRecommend(t *testing.T, s *HTTPServer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestRecommend_Success(t *testing.T) {
	pipeline := &fakePipeline{recs: []recommend.Recommendation{
		{
			Name:            "Java 8 (New)",
			Link:            "https://example.com/products/java-8/",
			Description:     "Measures Java 8 knowledge.",
			Duration:        "40 minutes",
			RemoteSupport:   "Yes",
			AdaptiveSupport: "No",
			TestType:        "KP",
			Reason:          "matches the Java requirement",
		},
	}}

	rec := postRecommend(t, newTestServer(t, pipeline), `{"input": "java developers"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out))
	}
	item := out[0]
	if item["Test_Name"] != "Java 8 (New)" {
		t.Errorf("unexpected Test_Name: %q", item["Test_Name"])
	}
	if item["URL"] != "https://example.com/products/java-8/" {
		t.Errorf("unexpected URL: %q", item["URL"])
	}
	if item["Test_Type"] != "Knowledge & Skills, Personality & Behavior" {
		t.Errorf("test type codes should be decoded, got %q", item["Test_Type"])
	}
	if item["Remote_Support"] != "Yes" || item["Adaptive_Support"] != "No" {
		t.Errorf("unexpected support fields: %+v", item)
	}
}

func TestRecommend_EmptyInputIsBadRequest(t *testing.T) {
	rec := postRecommend(t, newTestServer(t, &fakePipeline{}), `{"input": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRecommend_InvalidBodyIsBadRequest(t *testing.T) {
	rec := postRecommend(t, newTestServer(t, &fakePipeline{}), `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRecommend_NoResultsIsNotFound(t *testing.T) {
	rec := postRecommend(t, newTestServer(t, &fakePipeline{}), `{"input": "underwater basket weaving"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no relevant assessments found") {
		t.Errorf("unexpected 404 body: %s", rec.Body.String())
	}
}

func TestRecommend_PipelineFaultIsGeneric500(t *testing.T) {
	pipeline := &fakePipeline{err: errors.New("qdrant: connection refused to 10.0.0.5:6334")}
	rec := postRecommend(t, newTestServer(t, pipeline), `{"input": "java"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("error response must not leak internal details")
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Errorf("unexpected 500 body: %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &fakePipeline{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

type fakePinger struct{ err error }

func (p *fakePinger) Ping(context.Context) error { return p.err }

func TestReadyz_FailsWhenStorageDown(t *testing.T) {
	s, err := NewHTTPServer(HTTPServerConfig{
		Pipeline: &fakePipeline{},
		Pinger:   &fakePinger{err: errors.New("down")},
	})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

type fakeReindexer struct{ called chan struct{} }

func (f *fakeReindexer) Reindex(context.Context) (int, error) {
	close(f.called)
	return 1, nil
}

func TestAdminReindex_RequiresAPIKey(t *testing.T) {
	ix := &fakeReindexer{called: make(chan struct{})}
	s, err := NewHTTPServer(HTTPServerConfig{
		Pipeline:    &fakePipeline{},
		AdminAPIKey: "sekrit",
		Reindexer:   ix,
	})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/reindex", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/reindex", nil)
	req.Header.Set("X-API-Key", "sekrit")
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202 with key, got %d", rec.Code)
	}

	select {
	case <-ix.called:
	case <-time.After(time.Second):
		t.Error("reindex was not triggered")
	}
}
