package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sdlcflow/internal/sdlc"
)

func TestBacklogMarkdown(t *testing.T) {
	state := sdlc.NewWorkflowState("task-1", "E-Commerce Platform")
	state.ProjectAnalysis = &sdlc.ProjectAnalysis{
		Domain:            "E-Commerce",
		ProjectType:       "Web Application",
		Complexity:        "Medium",
		Stakeholders:      []string{"Customers", "Store Administrators"},
		EstimatedTimeline: "3-6 months",
	}
	state.UserStories = &sdlc.UserStoryList{UserStories: []sdlc.UserStory{
		{
			ID: "US-001", Title: "Browse product catalog", Epic: "Catalog",
			Description: "As a customer, I want to browse products",
			Priority:    "High", StoryPoints: 3, UserPersona: "Customer",
			AcceptanceCriteria: []string{"Products are listed with name and price"},
		},
		{
			ID: "US-002", Title: "Add product to cart", Epic: "Checkout",
			Description: "As a customer, I want to add products to my cart",
			Priority:    "High", StoryPoints: 5, UserPersona: "Customer",
		},
	}}

	doc := BacklogMarkdown(state)

	assert.Contains(t, doc, "# E-Commerce Platform")
	assert.Contains(t, doc, "## Project Analysis")
	assert.Contains(t, doc, "| Domain | E-Commerce |")
	assert.Contains(t, doc, "| Stakeholders | Customers, Store Administrators |")
	assert.Contains(t, doc, "## User Stories")
	assert.Contains(t, doc, "### Catalog")
	assert.Contains(t, doc, "### Checkout")
	assert.Contains(t, doc, "**US-001: Browse product catalog** (High, 3 points, Customer)")
	assert.Contains(t, doc, "- Products are listed with name and price")

	// Epics appear in story order.
	assert.Less(t, strings.Index(doc, "### Catalog"), strings.Index(doc, "### Checkout"))
}

func TestBacklogMarkdown_BeforeAnalysis(t *testing.T) {
	state := sdlc.NewWorkflowState("task-1", "Shop")

	doc := BacklogMarkdown(state)

	assert.Contains(t, doc, "# Shop")
	assert.NotContains(t, doc, "## Project Analysis")
	assert.NotContains(t, doc, "## User Stories")
}

func TestMarkdown_PlainTerminalFallback(t *testing.T) {
	t.Setenv("TERM", "dumb")
	t.Setenv("NO_COLOR", "1")

	doc := "# Heading\n\nbody\n"
	assert.Equal(t, doc, Markdown(doc))
}
