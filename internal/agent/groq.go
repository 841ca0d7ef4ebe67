package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GroqClient implements the Agent interface for Groq's OpenAI-compatible
// chat completions API.
type GroqClient struct {
	apiKey      string
	model       string
	project     string
	temperature float64
	httpClient  *http.Client
	apiURL      string
	// mockResponder bypasses the real API in tests
	mockResponder func(string) (string, error)
	// stateManager is optional; if set, enables token tracking and truncation
	stateManager *StateManager
	backoffFn    func(int) time.Duration
}

// NewGroqClient creates a new Groq client.
func NewGroqClient(apiKey, model, project string) *GroqClient {
	return &GroqClient{
		apiKey:      apiKey,
		model:       model,
		project:     project,
		temperature: 0.1,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiURL: "https://api.groq.com/openai/v1/chat/completions",
		backoffFn: func(retry int) time.Duration {
			return time.Duration(1<<uint(retry-1)) * time.Second
		},
	}
}

// WithMockResponder sets a mock responder for testing.
func (c *GroqClient) WithMockResponder(fn func(string) (string, error)) *GroqClient {
	c.mockResponder = fn
	return c
}

// WithStateManager sets the state manager for token tracking.
func (c *GroqClient) WithStateManager(sm *StateManager) *GroqClient {
	c.stateManager = sm
	return c
}

// WithTemperature overrides the default sampling temperature.
func (c *GroqClient) WithTemperature(t float64) *GroqClient {
	c.temperature = t
	return c
}

// Send sends a prompt to Groq with retry logic and token tracking.
func (c *GroqClient) Send(ctx context.Context, prompt string) (string, error) {
	return SendWithState(ctx, c, prompt)
}

// GetProject returns the project name.
func (c *GroqClient) GetProject() string {
	return c.project
}

// GetStateManager returns the state manager.
func (c *GroqClient) GetStateManager() *StateManager {
	return c.stateManager
}

// GetBackoffFn returns the backoff function.
func (c *GroqClient) GetBackoffFn() func(int) time.Duration {
	return c.backoffFn
}

// GetDefaultMaxTokens returns the default context budget.
func (c *GroqClient) GetDefaultMaxTokens() int {
	return 32000
}

// SendOnce sends a prompt to Groq without retries or state management.
func (c *GroqClient) SendOnce(ctx context.Context, prompt string) (string, error) {
	if c.mockResponder != nil {
		return c.mockResponder(prompt)
	}

	if c.apiKey == "" {
		return "", fmt.Errorf("API key is required")
	}

	requestBody := map[string]interface{}{
		"model":       c.model,
		"temperature": c.temperature,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Groq API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return response.Choices[0].Message.Content, nil
}
