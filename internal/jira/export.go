package jira

import (
	"context"
	"fmt"
	"strings"

	"sdlcflow/internal/sdlc"
)

// ClientInterface defines the methods required for backlog export.
type ClientInterface interface {
	CreateTicket(ctx context.Context, projectKey, summary, description, issueType string, labels []string) (string, error)
	CreateChildTicket(ctx context.Context, projectKey, summary, description, issueType, parentKey string, labels []string) (string, error)
}

// ExportResult maps created ticket keys back to the backlog.
type ExportResult struct {
	EpicKeys  map[string]string // epic name -> ticket key
	StoryKeys map[string]string // story id -> ticket key
}

// ExportBacklog creates one Epic per distinct story epic and one Story
// ticket per user story, linked to its epic. Assignee is never sent; the
// backlog leaves assignment to the team.
func ExportBacklog(ctx context.Context, client ClientInterface, projectKey string, state *sdlc.WorkflowState) (*ExportResult, error) {
	stories := state.Stories()
	if len(stories) == 0 {
		return nil, fmt.Errorf("no user stories to export")
	}

	result := &ExportResult{
		EpicKeys:  make(map[string]string),
		StoryKeys: make(map[string]string),
	}

	labels := []string{"sdlcflow"}

	for _, story := range stories {
		epic := story.Epic
		if epic == "" {
			epic = state.ProjectName
		}
		if _, ok := result.EpicKeys[epic]; !ok {
			desc := fmt.Sprintf("Epic for %s, generated from project requirements.", state.ProjectName)
			key, err := client.CreateTicket(ctx, projectKey, epic, desc, "Epic", labels)
			if err != nil {
				return result, fmt.Errorf("failed to create epic %q: %w", epic, err)
			}
			result.EpicKeys[epic] = key
		}

		key, err := client.CreateChildTicket(ctx, projectKey, story.Title, storyDescription(story), "Story", result.EpicKeys[epic], labels)
		if err != nil {
			return result, fmt.Errorf("failed to create story %s: %w", story.ID, err)
		}
		result.StoryKeys[story.ID] = key
	}

	return result, nil
}

func storyDescription(story sdlc.UserStory) string {
	var b strings.Builder
	b.WriteString(story.Description)
	if len(story.AcceptanceCriteria) > 0 {
		b.WriteString("\n\nAcceptance criteria:\n")
		for _, c := range story.AcceptanceCriteria {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	fmt.Fprintf(&b, "\nStory points: %d | Persona: %s | Priority: %s", story.StoryPoints, story.UserPersona, story.Priority)
	return b.String()
}
