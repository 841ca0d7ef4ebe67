package agent

import (
	"context"
	"strings"
)

// MockAgent returns canned responses without calling any API. It answers
// the analysis and story prompts with valid JSON so the whole workflow can
// run in mock mode and in tests.
type MockAgent struct {
	forcedResponse string
	forcedErr      error
	// Prompts records every prompt received, for assertions.
	Prompts []string
}

// NewMockAgent creates a new mock agent.
func NewMockAgent() *MockAgent {
	return &MockAgent{}
}

// SetResponse forces a specific response from the agent.
func (m *MockAgent) SetResponse(response string) {
	m.forcedResponse = response
}

// SetError forces an error from the agent.
func (m *MockAgent) SetError(err error) {
	m.forcedErr = err
}

// Send implements the Agent interface. The canned response is picked by
// sniffing the prompt: analysis prompts get an analysis object, story
// prompts get a two-story backlog.
func (m *MockAgent) Send(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.forcedErr != nil {
		return "", m.forcedErr
	}
	if m.forcedResponse != "" {
		return m.forcedResponse, nil
	}

	if strings.Contains(prompt, "business analyst") {
		return mockAnalysisResponse, nil
	}
	if strings.Contains(prompt, "product owner") {
		return mockStoriesResponse, nil
	}
	return `{"result": "mock response"}`, nil
}

const mockAnalysisResponse = `{
  "domain": "E-Commerce",
  "project_type": "Web Application",
  "complexity": "Medium",
  "stakeholders": ["Customers", "Store Administrators", "Payment Provider"],
  "estimated_timeline": "3-6 months"
}`

const mockStoriesResponse = "```json\n" + `{
  "user_stories": [
    {
      "id": "US-001",
      "title": "Browse product catalog",
      "description": "As a customer, I want to browse products so that I can find items to buy",
      "epic": "Catalog",
      "priority": "High",
      "story_points": 3,
      "acceptance_criteria": ["Products are listed with name and price", "List is paginated"],
      "user_persona": "Customer"
    },
    {
      "id": "US-002",
      "title": "Add product to cart",
      "description": "As a customer, I want to add products to my cart so that I can purchase several items at once",
      "epic": "Checkout",
      "priority": "High",
      "story_points": 5,
      "acceptance_criteria": ["Cart persists across page loads", "Quantity can be adjusted"],
      "user_persona": "Customer"
    }
  ]
}` + "\n```"
