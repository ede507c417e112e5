package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hirewise/recommender/internal/catalog"
	"github.com/hirewise/recommender/internal/llm"
)

// MaxResults is the hard cap on recommendations per query.
const MaxResults = 10

// Decision is one reranker pick: a candidate id from the prompt plus the
// model's stated reason for recommending it.
type Decision struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Reranker asks an LLM to pick the most relevant candidates for a query.
type Reranker struct {
	llmClient llm.LLM
}

// NewReranker creates a Reranker.
func NewReranker(llmClient llm.LLM) *Reranker {
	return &Reranker{llmClient: llmClient}
}

// Rerank presents the candidates to the LLM and returns its picks in model
// order. The reply is untrusted: markdown fences are stripped, then the text
// gets exactly one JSON parse. Any failure, a generation error included,
// degrades to zero decisions so the caller can fall back to an empty result.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []Candidate) []Decision {
	if len(candidates) == 0 {
		return nil
	}

	prompt := buildRerankPrompt(query, candidates)

	response, err := r.llmClient.Generate(ctx, prompt, llm.GenerateOptions{})
	if err != nil {
		slog.Error("rerank generation failed", "error", err)
		return nil
	}

	decisions, err := parseDecisions(response)
	if err != nil {
		slog.Warn("unparseable rerank response", "error", err)
		return nil
	}

	return decisions
}

// buildRerankPrompt renders the query and a numbered candidate block per
// assessment. Candidate ids are 1-based positions in this prompt and mean
// nothing outside this one call.
func buildRerankPrompt(query string, candidates []Candidate) string {
	var sb strings.Builder

	sb.WriteString("You are an expert in talent assessment. A hiring manager describes what they are hiring for, ")
	sb.WriteString("and you pick the most relevant assessments from the numbered catalog excerpt below.\n\n")
	sb.WriteString("Hiring query:\n")
	sb.WriteString(query)
	sb.WriteString("\n\nCandidate assessments:\n\n")

	for i, c := range candidates {
		sb.WriteString("id: ")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\nTitle: ")
		sb.WriteString(c.Name)
		sb.WriteString("\nDescription: ")
		sb.WriteString(c.Description)
		if len(c.Tags) > 0 {
			sb.WriteString("\nTags: ")
			sb.WriteString(strings.Join(c.Tags, ", "))
		}
		if c.JobLevels != "" {
			sb.WriteString("\nJob levels: ")
			sb.WriteString(c.JobLevels)
		}
		if c.Duration != "" {
			sb.WriteString("\nDuration: ")
			sb.WriteString(c.Duration)
		}
		if c.TestType != "" {
			sb.WriteString("\nTest type: ")
			sb.WriteString(catalog.DecodeTestType(c.TestType))
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString("Pick up to ")
	sb.WriteString(strconv.Itoa(MaxResults))
	sb.WriteString(" assessments that best match the hiring query. Match the hard skills and the soft ")
	sb.WriteString("skills the query asks for, respect the role and seniority level, and respect any ")
	sb.WriteString("duration limit stated in the query. Weigh contextual needs such as cross-functional ")
	sb.WriteString("collaboration, remote-friendliness or leadership. Rank by semantic relevance to the ")
	sb.WriteString("query, not by word overlap. Do not invent assessments; only use ids that appear above.\n\n")
	sb.WriteString("Respond with ONLY a JSON array of the form:\n")
	sb.WriteString(`[{"id": "3", "reason": "why this assessment fits"}]` + "\n")
	sb.WriteString("No commentary, no markdown, no trailing text.\n")

	return sb.String()
}

// parseDecisions unwraps optional markdown fences and parses the decision
// array. It never attempts to repair malformed output.
func parseDecisions(response string) ([]Decision, error) {
	cleaned := strings.TrimSpace(response)

	if idx := strings.Index(cleaned, "```json"); idx != -1 {
		cleaned = cleaned[idx+len("```json"):]
	} else if idx := strings.Index(cleaned, "```"); idx != -1 {
		cleaned = cleaned[idx+len("```"):]
	}
	if idx := strings.Index(cleaned, "```"); idx != -1 {
		cleaned = cleaned[:idx]
	}
	cleaned = strings.TrimSpace(cleaned)

	var decisions []Decision
	if err := json.Unmarshal([]byte(cleaned), &decisions); err != nil {
		return nil, fmt.Errorf("parsing rerank decisions: %w", err)
	}

	return decisions, nil
}
