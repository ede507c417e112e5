package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hirewise/recommender/internal/catalog"
	"github.com/hirewise/recommender/internal/recommend"
)

// recommendRequest is the POST /recommend body.
type recommendRequest struct {
	Input string `json:"input"`
}

// recommendedAssessment is one item in the POST /recommend response. Field
// names are part of the public contract.
type recommendedAssessment struct {
	TestName        string `json:"Test_Name"`
	URL             string `json:"URL"`
	Description     string `json:"Description"`
	Duration        string `json:"Duration"`
	RemoteSupport   string `json:"Remote_Support"`
	AdaptiveSupport string `json:"Adaptive_Support"`
	TestType        string `json:"Test_Type"`
	Reason          string `json:"Reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *HTTPServer) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	query := req.Input
	if s.refiner != nil {
		refined, err := s.refiner.Refine(r.Context(), req.Input)
		if err != nil {
			s.logger.Error("failed to refine input", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			return
		}
		query = refined
	}

	recs, err := s.pipeline.Recommend(r.Context(), query)
	switch {
	case errors.Is(err, recommend.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "input must not be empty"})
		return
	case err != nil:
		s.logger.Error("recommendation pipeline failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	if len(recs) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no relevant assessments found"})
		return
	}

	out := make([]recommendedAssessment, len(recs))
	for i, rec := range recs {
		out[i] = recommendedAssessment{
			TestName:        rec.Name,
			URL:             rec.Link,
			Description:     rec.Description,
			Duration:        rec.Duration,
			RemoteSupport:   rec.RemoteSupport,
			AdaptiveSupport: rec.AdaptiveSupport,
			TestType:        catalog.DecodeTestType(rec.TestType),
			Reason:          rec.Reason,
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleReindex(w http.ResponseWriter, r *http.Request) {
	// Reindexing embeds the whole catalog; detach from the request context so
	// a dropped admin connection does not abort it.
	go func() {
		indexed, err := s.reindexer.Reindex(context.Background())
		if err != nil {
			s.logger.Error("reindex failed", "error", err, "indexed", indexed)
			return
		}
		s.logger.Info("reindex complete", "indexed", indexed)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reindex started"})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.logger.Warn("readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
