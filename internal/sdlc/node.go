package sdlc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sdlcflow/internal/agent"
	"sdlcflow/internal/telemetry"
	"sdlcflow/internal/utils"
)

// ProjectRequirementNode turns requirements into an analysis and a backlog
// by prompting the configured agent. It is stateless; all inputs and
// outputs live on the WorkflowState.
type ProjectRequirementNode struct {
	agent agent.Agent
}

// NewProjectRequirementNode creates a node backed by the given agent.
func NewProjectRequirementNode(a agent.Agent) *ProjectRequirementNode {
	return &ProjectRequirementNode{agent: a}
}

// AnalyzeProject fills state.ProjectAnalysis from the project requirements.
func (n *ProjectRequirementNode) AnalyzeProject(ctx context.Context, state *WorkflowState) error {
	if state.ProjectName == "" {
		return fmt.Errorf("project name is required")
	}
	if len(state.Requirements) == 0 {
		return fmt.Errorf("at least one requirement is required")
	}

	start := time.Now()
	response, err := n.agent.Send(ctx, analysisPrompt(state.ProjectName, state.Requirements))
	telemetry.ObserveLLMLatency(state.ProjectName, NodeAnalyzeProject, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("analysis request failed: %w", err)
	}

	var analysis ProjectAnalysis
	if err := json.Unmarshal([]byte(utils.CleanJSONBlock(response)), &analysis); err != nil {
		return fmt.Errorf("failed to parse analysis response: %w", err)
	}
	if analysis.Domain == "" || analysis.ProjectType == "" {
		return fmt.Errorf("analysis response missing domain or project type")
	}

	state.ProjectAnalysis = &analysis
	state.UpdatedAt = time.Now()
	telemetry.TrackNodeExecution(NodeAnalyzeProject)
	return nil
}

// GenerateUserStories fills state.UserStories. When the analysis has not
// run yet it is produced first, so story generation always has domain
// context to work with.
func (n *ProjectRequirementNode) GenerateUserStories(ctx context.Context, state *WorkflowState) error {
	if state.ProjectAnalysis == nil {
		if err := n.AnalyzeProject(ctx, state); err != nil {
			return err
		}
	}

	start := time.Now()
	response, err := n.agent.Send(ctx, storiesPrompt(state.ProjectName, state.Requirements, state.ProjectAnalysis))
	telemetry.ObserveLLMLatency(state.ProjectName, NodeGenerateStories, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("story generation request failed: %w", err)
	}

	var stories UserStoryList
	if err := json.Unmarshal([]byte(utils.CleanJSONBlock(response)), &stories); err != nil {
		return fmt.Errorf("failed to parse story response: %w", err)
	}
	if len(stories.UserStories) == 0 {
		return fmt.Errorf("story response contained no user stories")
	}

	// Assignment is a human decision; scrub anything the model invented.
	for i := range stories.UserStories {
		stories.UserStories[i].Assignee = ""
	}

	state.UserStories = &stories
	state.UpdatedAt = time.Now()
	telemetry.TrackNodeExecution(NodeGenerateStories)
	return nil
}
