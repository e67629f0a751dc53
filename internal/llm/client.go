package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// #region types

// Message is one turn of conversation history.
type Message struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Options tunes a single generation call.
type Options struct {
	Temperature float32
	MaxTokens   int
	Model       string // override the provider default when non-empty
}

// Client is the generation capability every provider implements. A
// transport or API failure is returned as an error and surfaces to the
// orchestrator as a fatal turn failure; timeouts are the provider's
// concern and arrive here only through ctx or the error.
type Client interface {
	Generate(ctx context.Context, messages []Message, system string, opts Options) (string, error)
	Name() string
}

// #endregion types

// #region registry

// NewClient resolves a provider by name, once, at construction time.
// An empty name falls back to DetectProvider. A missing credential is a
// configuration error and prevents the session from being created.
func NewClient(provider string) (Client, error) {
	if provider == "" {
		provider = DetectProvider()
	}
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient()
	case "anthropic":
		return NewAnthropicClient()
	case "ollama":
		return NewOllamaClient()
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (available: openai, anthropic, ollama)", provider)
	}
}

// DetectProvider picks a provider from the environment: explicit
// LLM_PROVIDER first, then whichever API key is present, else ollama.
func DetectProvider() string {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		return strings.ToLower(v)
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return "anthropic"
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		return "openai"
	}
	return "ollama"
}

// #endregion registry
