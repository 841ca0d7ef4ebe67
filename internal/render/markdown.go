package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"sdlcflow/internal/sdlc"
)

// BacklogMarkdown builds a markdown document for a completed workflow run:
// the project analysis followed by the story backlog grouped by epic.
func BacklogMarkdown(state *sdlc.WorkflowState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", state.ProjectName)

	if a := state.ProjectAnalysis; a != nil {
		b.WriteString("## Project Analysis\n\n")
		fmt.Fprintf(&b, "| | |\n|---|---|\n")
		fmt.Fprintf(&b, "| Domain | %s |\n", a.Domain)
		fmt.Fprintf(&b, "| Project Type | %s |\n", a.ProjectType)
		fmt.Fprintf(&b, "| Complexity | %s |\n", a.Complexity)
		fmt.Fprintf(&b, "| Stakeholders | %s |\n", strings.Join(a.Stakeholders, ", "))
		fmt.Fprintf(&b, "| Timeline | %s |\n\n", a.EstimatedTimeline)
	}

	stories := state.Stories()
	if len(stories) == 0 {
		return b.String()
	}

	b.WriteString("## User Stories\n\n")
	byEpic := make(map[string][]sdlc.UserStory)
	var epicOrder []string
	for _, s := range stories {
		if _, ok := byEpic[s.Epic]; !ok {
			epicOrder = append(epicOrder, s.Epic)
		}
		byEpic[s.Epic] = append(byEpic[s.Epic], s)
	}

	for _, epic := range epicOrder {
		fmt.Fprintf(&b, "### %s\n\n", epic)
		for _, s := range byEpic[epic] {
			fmt.Fprintf(&b, "**%s: %s** (%s, %d points, %s)\n\n", s.ID, s.Title, s.Priority, s.StoryPoints, s.UserPersona)
			fmt.Fprintf(&b, "%s\n\n", s.Description)
			for _, c := range s.AcceptanceCriteria {
				fmt.Fprintf(&b, "- %s\n", c)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Markdown renders a markdown document for the terminal. Falls back to
// the raw text when the terminal cannot take styling or rendering fails.
func Markdown(doc string) string {
	if termenv.EnvColorProfile() == termenv.Ascii {
		return doc
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return doc
	}

	out, err := renderer.Render(doc)
	if err != nil {
		return doc
	}
	return out
}
