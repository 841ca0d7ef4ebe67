package sdlc

import (
	"fmt"
	"strings"
)

// analysisPrompt asks the model to classify the project. The response must
// be bare JSON matching ProjectAnalysis; the caller strips fences as a
// fallback for models that wrap output anyway.
func analysisPrompt(projectName string, requirements []string) string {
	return fmt.Sprintf(`You are a senior business analyst. Analyze the following project and its requirements.

Project: %s

Requirements:
%s

Respond with a JSON object that follows this exact structure:
{
  "domain": "business domain, e.g. E-Commerce, Healthcare, Finance",
  "project_type": "e.g. Web Application, Mobile App, API Platform",
  "complexity": "Low|Medium|High",
  "stakeholders": ["stakeholder1", "stakeholder2"],
  "estimated_timeline": "e.g. 3-6 months"
}

Guidelines:
- Infer the domain and project type from the requirements, not the name alone
- Base complexity on the number of integrations and distinct user flows
- List every stakeholder group the requirements imply

Respond ONLY with valid JSON. Do not include any markdown formatting or explanations.`,
		projectName, bulletList(requirements))
}

// storiesPrompt asks for the full backlog. The assignee field is
// intentionally absent from the schema: assignment is a human decision and
// generated stories must leave it empty.
func storiesPrompt(projectName string, requirements []string, analysis *ProjectAnalysis) string {
	return fmt.Sprintf(`You are a senior product owner preparing a backlog for a development team.

Project: %s
Domain: %s
Project Type: %s
Complexity: %s

Requirements:
%s

Respond with a JSON object that follows this exact structure:
{
  "user_stories": [
    {
      "id": "US-001",
      "title": "Short story title",
      "description": "As a [persona], I want [goal] so that [benefit]",
      "epic": "Epic this story belongs to",
      "priority": "High|Medium|Low",
      "story_points": 1,
      "acceptance_criteria": ["criteria1", "criteria2"],
      "user_persona": "the persona this story serves"
    }
  ]
}

Guidelines:
- Create at least one story per requirement; split large requirements
- IDs are sequential: US-001, US-002, ...
- Story points follow the Fibonacci sequence (1,2,3,5,8)
- Group stories under 2-5 epics representing functional areas
- Write descriptions in proper user story format
- Do NOT assign stories to anyone

Respond ONLY with valid JSON. Do not include any markdown formatting or explanations.`,
		projectName, analysis.Domain, analysis.ProjectType, analysis.Complexity, bulletList(requirements))
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
