package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-planner/internal/config"
)

// ErrNoProvider is returned when no LLM API key is configured.
var ErrNoProvider = errors.New("no llm provider configured")

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// NewTextGenerator picks a generator from the configuration. An explicit
// LLM_PROVIDER wins; otherwise Gemini is preferred over Groq.
func NewTextGenerator(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if provider == "" {
		switch {
		case cfg.GeminiAPIKey != "":
			provider = "gemini"
		case cfg.GroqAPIKey != "":
			provider = "groq"
		default:
			return nil, ErrNoProvider
		}
	}

	switch provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		return NewGeminiClient(ctx, cfg.GeminiAPIKey)
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
		return NewGroqClient(cfg.GroqAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
