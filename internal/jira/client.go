package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client handles Jira REST v3 API interactions.
type Client struct {
	BaseURL    string
	Username   string
	APIToken   string
	HTTPClient *http.Client
}

// NewClient creates a new Jira client.
func NewClient(baseURL, username, apiToken string) *Client {
	return &Client{
		BaseURL:  baseURL,
		Username: username,
		APIToken: apiToken,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Authenticate verifies the credentials by calling the Current User endpoint.
func (c *Client) Authenticate(ctx context.Context) error {
	url := fmt.Sprintf("%s/rest/api/3/myself", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.Username, c.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("authentication failed with status: %d", resp.StatusCode)
	}

	return nil
}

// CreateTicket creates a new issue and returns its key.
func (c *Client) CreateTicket(ctx context.Context, projectKey, summary, description, issueType string, labels []string) (string, error) {
	fields := map[string]interface{}{
		"project":     map[string]interface{}{"key": projectKey},
		"summary":     summary,
		"description": adfParagraph(description),
		"issuetype":   map[string]interface{}{"name": issueType},
	}
	if len(labels) > 0 {
		fields["labels"] = labels
	}
	return c.createIssue(ctx, fields)
}

// CreateChildTicket creates a new issue under a parent (Epic link).
func (c *Client) CreateChildTicket(ctx context.Context, projectKey, summary, description, issueType, parentKey string, labels []string) (string, error) {
	fields := map[string]interface{}{
		"project":     map[string]interface{}{"key": projectKey},
		"parent":      map[string]interface{}{"key": parentKey},
		"summary":     summary,
		"description": adfParagraph(description),
		"issuetype":   map[string]interface{}{"name": issueType},
	}
	if len(labels) > 0 {
		fields["labels"] = labels
	}
	return c.createIssue(ctx, fields)
}

func (c *Client) createIssue(ctx context.Context, fields map[string]interface{}) (string, error) {
	url := fmt.Sprintf("%s/rest/api/3/issue", c.BaseURL)

	body, err := json.Marshal(map[string]interface{}{"fields": fields})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.Username, c.APIToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("issue creation failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Key, nil
}

// adfParagraph wraps plain text in the Atlassian Document Format required
// by the v3 issue endpoints.
func adfParagraph(text string) map[string]interface{} {
	return map[string]interface{}{
		"type":    "doc",
		"version": 1,
		"content": []map[string]interface{}{
			{
				"type": "paragraph",
				"content": []map[string]interface{}{
					{"type": "text", "text": text},
				},
			},
		},
	}
}
