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

// OllamaClient implements the Agent interface for a local Ollama server.
type OllamaClient struct {
	baseURL       string
	model         string
	project       string
	httpClient    *http.Client
	mockResponder func(string) (string, error)
	stateManager  *StateManager
	backoffFn     func(int) time.Duration
}

// NewOllamaClient creates a new Ollama client. baseURL defaults to the
// standard local daemon address when empty.
func NewOllamaClient(baseURL, model, project string) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		project: project,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		backoffFn: func(retry int) time.Duration {
			return time.Duration(1<<uint(retry-1)) * time.Second
		},
	}
}

// WithMockResponder sets a mock responder for testing.
func (c *OllamaClient) WithMockResponder(fn func(string) (string, error)) *OllamaClient {
	c.mockResponder = fn
	return c
}

// WithStateManager sets the state manager for token tracking.
func (c *OllamaClient) WithStateManager(sm *StateManager) *OllamaClient {
	c.stateManager = sm
	return c
}

// Send sends a prompt to Ollama with retry logic and token tracking.
func (c *OllamaClient) Send(ctx context.Context, prompt string) (string, error) {
	return SendWithState(ctx, c, prompt)
}

// GetProject returns the project name.
func (c *OllamaClient) GetProject() string {
	return c.project
}

// GetStateManager returns the state manager.
func (c *OllamaClient) GetStateManager() *StateManager {
	return c.stateManager
}

// GetBackoffFn returns the backoff function.
func (c *OllamaClient) GetBackoffFn() func(int) time.Duration {
	return c.backoffFn
}

// GetDefaultMaxTokens returns the default context budget.
func (c *OllamaClient) GetDefaultMaxTokens() int {
	return 8000
}

// SendOnce sends a prompt to Ollama without retries or state management.
func (c *OllamaClient) SendOnce(ctx context.Context, prompt string) (string, error) {
	if c.mockResponder != nil {
		return c.mockResponder(prompt)
	}

	requestBody := map[string]interface{}{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Ollama API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Response == "" {
		return "", fmt.Errorf("no content in response")
	}

	return response.Response, nil
}
