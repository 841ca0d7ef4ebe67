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

// OpenAIClient implements the Agent interface for OpenAI (GPT-4, etc.)
type OpenAIClient struct {
	apiKey        string
	model         string
	project       string
	httpClient    *http.Client
	apiURL        string
	mockResponder func(string) (string, error)
	stateManager  *StateManager
	backoffFn     func(int) time.Duration
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey, model, project string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		project: project,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiURL: "https://api.openai.com/v1/chat/completions",
		backoffFn: func(retry int) time.Duration {
			return time.Duration(1<<uint(retry-1)) * time.Second
		},
	}
}

// WithMockResponder sets a mock responder for testing.
func (c *OpenAIClient) WithMockResponder(fn func(string) (string, error)) *OpenAIClient {
	c.mockResponder = fn
	return c
}

// WithStateManager sets the state manager for token tracking.
func (c *OpenAIClient) WithStateManager(sm *StateManager) *OpenAIClient {
	c.stateManager = sm
	return c
}

// Send sends a prompt to OpenAI with retry logic and token tracking.
func (c *OpenAIClient) Send(ctx context.Context, prompt string) (string, error) {
	return SendWithState(ctx, c, prompt)
}

// GetProject returns the project name.
func (c *OpenAIClient) GetProject() string {
	return c.project
}

// GetStateManager returns the state manager.
func (c *OpenAIClient) GetStateManager() *StateManager {
	return c.stateManager
}

// GetBackoffFn returns the backoff function.
func (c *OpenAIClient) GetBackoffFn() func(int) time.Duration {
	return c.backoffFn
}

// GetDefaultMaxTokens returns the default context budget.
func (c *OpenAIClient) GetDefaultMaxTokens() int {
	return 128000
}

// SendOnce sends a prompt to OpenAI without retries or state management.
func (c *OpenAIClient) SendOnce(ctx context.Context, prompt string) (string, error) {
	if c.mockResponder != nil {
		return c.mockResponder(prompt)
	}

	if c.apiKey == "" {
		return "", fmt.Errorf("API key is required")
	}

	requestBody := map[string]interface{}{
		"model": c.model,
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
		return "", fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, string(bodyBytes))
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
