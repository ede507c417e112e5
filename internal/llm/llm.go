// Package llm provides interfaces and implementations for the generative
// model clients used as ranking and query-refinement oracles.
package llm

import (
	"context"
)

// GenerateOptions configures the LLM generation request.
type GenerateOptions struct {
	// Model specifies the model to use (e.g., "llama3.2", "gemini-2.0-flash").
	Model string

	// SystemPrompt sets the system-level instructions for the model.
	SystemPrompt string

	// Temperature controls randomness in generation (0.0 = deterministic, 1.0 = creative).
	Temperature float32

	// MaxTokens limits the maximum number of tokens in the response.
	MaxTokens int
}

// LLM defines the interface for generative model clients. Calls are
// single-turn and stateless; the pipeline never streams.
type LLM interface {
	// Generate sends a prompt to the model and returns the complete response.
	// It blocks until the full response is received or an error occurs.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
