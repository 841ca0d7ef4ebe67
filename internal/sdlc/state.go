package sdlc

import "time"

// Workflow status values stored alongside each task.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Node names used by the workflow graph.
const (
	NodeGetRequirements = "get_user_requirements"
	NodeAnalyzeProject  = "analyze_project"
	NodeGenerateStories = "generate_stories"
	NodeDone            = "done"
)

// ProjectAnalysis summarizes what the LLM inferred about the project.
type ProjectAnalysis struct {
	Domain            string   `json:"domain"`
	ProjectType       string   `json:"project_type"`
	Complexity        string   `json:"complexity"` // "Low", "Medium", "High"
	Stakeholders      []string `json:"stakeholders"`
	EstimatedTimeline string   `json:"estimated_timeline"`
}

// UserStory is a single groomed backlog item.
// Assignee is carried for export targets but must never be populated by
// generation; assignment is a human decision.
type UserStory struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Epic               string   `json:"epic"`
	Priority           string   `json:"priority"` // "High", "Medium", "Low"
	StoryPoints        int      `json:"story_points"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	UserPersona        string   `json:"user_persona"`
	Assignee           string   `json:"assignee,omitempty"`
}

// UserStoryList is the story-generation result for one workflow run.
type UserStoryList struct {
	UserStories []UserStory `json:"user_stories"`
}

// WorkflowState carries a project through the workflow graph.
// Nodes mutate it in place; the executor persists it after every node.
type WorkflowState struct {
	TaskID          string           `json:"task_id"`
	ProjectName     string           `json:"project_name"`
	Requirements    []string         `json:"requirements"`
	NextNode        string           `json:"next_node"`
	Status          string           `json:"status"`
	ProjectAnalysis *ProjectAnalysis `json:"project_analysis,omitempty"`
	UserStories     *UserStoryList   `json:"user_stories,omitempty"`
	Error           string           `json:"error,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewWorkflowState creates the initial state for a project.
func NewWorkflowState(taskID, projectName string) *WorkflowState {
	now := time.Now()
	return &WorkflowState{
		TaskID:      taskID,
		ProjectName: projectName,
		NextNode:    NodeGetRequirements,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the state so callers can inspect a snapshot
// without racing the executor.
func (s *WorkflowState) Clone() *WorkflowState {
	if s == nil {
		return nil
	}
	out := *s
	out.Requirements = append([]string(nil), s.Requirements...)
	if s.ProjectAnalysis != nil {
		pa := *s.ProjectAnalysis
		pa.Stakeholders = append([]string(nil), s.ProjectAnalysis.Stakeholders...)
		out.ProjectAnalysis = &pa
	}
	if s.UserStories != nil {
		ul := UserStoryList{UserStories: make([]UserStory, len(s.UserStories.UserStories))}
		copy(ul.UserStories, s.UserStories.UserStories)
		for i := range ul.UserStories {
			ul.UserStories[i].AcceptanceCriteria = append([]string(nil), ul.UserStories[i].AcceptanceCriteria...)
		}
		out.UserStories = &ul
	}
	return &out
}

// Stories returns the flat story slice, or nil when generation has not run.
func (s *WorkflowState) Stories() []UserStory {
	if s.UserStories == nil {
		return nil
	}
	return s.UserStories.UserStories
}
