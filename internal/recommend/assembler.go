package recommend

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/hirewise/recommender/internal/catalog"
)

// Recommendation is one validated pipeline result: catalog fields joined with
// the reranker's reason.
type Recommendation struct {
	Name            string
	Link            string
	Description     string
	Duration        string
	DurationMinutes int
	JobLevels       string
	RemoteSupport   string
	AdaptiveSupport string
	TestType        string
	Reason          string
}

// Assemble validates reranker decisions against the candidate set and builds
// the final recommendations, preserving the model's order. Ids are normalized
// before lookup; ids that still do not resolve to a candidate are logged and
// skipped, as are repeats of an already-used candidate. Output is capped at
// MaxResults.
func Assemble(decisions []Decision, candidates []Candidate) []Recommendation {
	used := make(map[int]bool, len(decisions))
	recs := make([]Recommendation, 0, len(decisions))

	for _, d := range decisions {
		if len(recs) >= MaxResults {
			break
		}

		idx, ok := resolveID(d.ID, len(candidates))
		if !ok {
			slog.Warn("reranker returned unknown candidate id", "id", d.ID)
			continue
		}
		if used[idx] {
			continue
		}
		used[idx] = true

		c := candidates[idx]
		recs = append(recs, Recommendation{
			Name:            c.Name,
			Link:            c.Link,
			Description:     c.Description,
			Duration:        c.Duration,
			DurationMinutes: c.DurationMinutes,
			JobLevels:       c.JobLevels,
			RemoteSupport:   defaultSupport(c.RemoteSupport),
			AdaptiveSupport: defaultSupport(c.AdaptiveSupport),
			TestType:        c.TestType,
			Reason:          strings.TrimSpace(d.Reason),
		})
	}

	return recs
}

// resolveID normalizes a model-written candidate id and maps it to a 0-based
// candidate index. Models pad ids with whitespace or write them as list
// numbering ("3."), so both are tolerated; anything else is rejected.
func resolveID(id string, numCandidates int) (int, bool) {
	normalized := strings.TrimSpace(id)
	normalized = strings.TrimSuffix(normalized, ".")
	normalized = strings.TrimSpace(normalized)

	n, err := strconv.Atoi(normalized)
	if err != nil {
		return 0, false
	}
	if n < 1 || n > numCandidates {
		return 0, false
	}
	return n - 1, true
}

// defaultSupport collapses missing or unknown capability markers to "No".
// The catalog pages do not mark every assessment either way; the response
// contract is a hard Yes/No.
func defaultSupport(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "unknown") {
		return catalog.SupportNo
	}
	return v
}
