package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/hirewise/recommender/internal/config"
)

// NewClient constructs the LLM client selected by LLM_PROVIDER.
func NewClient(ctx context.Context, cfg *config.Config) (LLM, error) {
	provider := strings.ToLower(cfg.LLMProvider)

	switch provider {
	case "ollama":
		return NewOllamaClient(
			WithBaseURL(cfg.OllamaURL),
			WithModel(cfg.OllamaLLMModel),
		), nil

	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}
