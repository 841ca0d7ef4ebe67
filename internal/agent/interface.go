package agent

import (
	"context"
	"fmt"
)

// Agent is the interface all LLM providers implement.
type Agent interface {
	// Send sends a prompt and returns the full response text.
	Send(ctx context.Context, prompt string) (string, error)
}

// NewAgent is a factory returning an Agent for the given provider.
// For Ollama, apiKey is used as the base URL (defaults to localhost).
func NewAgent(provider, apiKey, model, project string) (Agent, error) {
	if project == "" {
		project = "unknown"
	}

	switch provider {
	case "groq":
		return NewGroqClient(apiKey, model, project), nil
	case "openai":
		return NewOpenAIClient(apiKey, model, project), nil
	case "ollama":
		return NewOllamaClient(apiKey, model, project), nil
	case "mock":
		return NewMockAgent(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
