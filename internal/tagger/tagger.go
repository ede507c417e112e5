// Package tagger enriches catalog records with short LLM-generated skill tags.
// Tags sharpen retrieval: they are embedded alongside each assessment and shown
// to the reranker.
package tagger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hirewise/recommender/internal/catalog"
	"github.com/hirewise/recommender/internal/llm"
)

// tagTemperature is deliberately high; tag variety matters more than
// determinism here.
const tagTemperature = 0.9

// Tagger generates tags for untagged catalog records.
type Tagger struct {
	llmClient llm.LLM
	repo      catalog.AssessmentRepository
}

// New creates a Tagger.
func New(llmClient llm.LLM, repo catalog.AssessmentRepository) *Tagger {
	return &Tagger{llmClient: llmClient, repo: repo}
}

// defaultBatchSize is how many untagged records are pulled per round.
const defaultBatchSize = 50

// TagUntagged walks every record without tags, generates tags for each, and
// persists them. Records whose generation fails are skipped and left untagged
// for a later run. The walk stops once a round makes no progress, so a batch
// of persistently failing records cannot loop forever.
func (t *Tagger) TagUntagged(ctx context.Context) (int, error) {
	total := 0
	for {
		assessments, err := t.repo.ListUntagged(ctx, defaultBatchSize)
		if err != nil {
			return total, fmt.Errorf("listing untagged assessments: %w", err)
		}
		if len(assessments) == 0 {
			return total, nil
		}

		slog.Info("tagging untagged assessments", "count", len(assessments))

		tagged := 0
		for _, a := range assessments {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			default:
			}

			tags, err := t.GenerateTags(ctx, a)
			if err != nil {
				slog.Warn("failed to generate tags", "id", a.ID, "name", a.Name, "error", err)
				continue
			}
			if len(tags) == 0 {
				slog.Warn("no tags generated", "id", a.ID, "name", a.Name)
				continue
			}

			if err := t.repo.UpdateTags(ctx, a.ID, tags); err != nil {
				return total, fmt.Errorf("persisting tags for %s: %w", a.ID, err)
			}
			tagged++
		}

		total += tagged
		if tagged == 0 {
			return total, nil
		}
	}
}

// GenerateTags asks the LLM for tags for a single assessment. The model reply
// is untrusted: fenced output is unwrapped, and anything that fails a single
// JSON parse yields an empty tag list rather than an error.
func (t *Tagger) GenerateTags(ctx context.Context, a *catalog.Assessment) ([]string, error) {
	prompt := buildTagPrompt(a)

	response, err := t.llmClient.Generate(ctx, prompt, llm.GenerateOptions{
		Temperature: tagTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generating tags: %w", err)
	}

	return parseTags(response), nil
}

func buildTagPrompt(a *catalog.Assessment) string {
	var sb strings.Builder

	sb.WriteString("You are helping enrich a catalog of professional assessments used for hiring.\n\n")
	sb.WriteString("Given the assessment below, generate 5 to 10 short tags that describe the skills,\n")
	sb.WriteString("traits, roles or domains it measures. Tags should be lowercase, one to three words each.\n\n")
	sb.WriteString("Assessment name: ")
	sb.WriteString(a.Name)
	sb.WriteString("\nDescription: ")
	sb.WriteString(a.Description)
	if a.JobLevels != "" {
		sb.WriteString("\nJob levels: ")
		sb.WriteString(a.JobLevels)
	}
	if a.TestType != "" {
		sb.WriteString("\nTest type: ")
		sb.WriteString(catalog.DecodeTestType(a.TestType))
	}
	sb.WriteString("\n\nRespond with ONLY a JSON object of the form {\"tags\": [\"tag1\", \"tag2\"]}.\n")
	sb.WriteString("No commentary, no markdown.\n")

	return sb.String()
}

// parseTags extracts the tag list from a model reply. Markdown fences are
// stripped first; a reply that still fails to parse yields no tags.
func parseTags(response string) []string {
	cleaned := stripFences(response)

	var parsed struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		slog.Warn("unparseable tag response", "error", err)
		return nil
	}

	tags := make([]string, 0, len(parsed.Tags))
	for _, tag := range parsed.Tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func stripFences(response string) string {
	cleaned := strings.TrimSpace(response)

	if idx := strings.Index(cleaned, "```json"); idx != -1 {
		cleaned = cleaned[idx+len("```json"):]
	} else if idx := strings.Index(cleaned, "```"); idx != -1 {
		cleaned = cleaned[idx+len("```"):]
	}
	if idx := strings.Index(cleaned, "```"); idx != -1 {
		cleaned = cleaned[:idx]
	}

	return strings.TrimSpace(cleaned)
}
