package graph

import (
	"context"
	"fmt"

	"sdlcflow/internal/agent"
	"sdlcflow/internal/sdlc"
	"sdlcflow/internal/telemetry"
)

// Builder wires the SDLC workflow graph around a single LLM-backed node
// object, mirroring how the flow hands state from requirements gathering
// through analysis to story generation.
type Builder struct {
	node *sdlc.ProjectRequirementNode
}

// NewBuilder creates a builder for the given agent.
func NewBuilder(a agent.Agent) *Builder {
	return &Builder{node: sdlc.NewProjectRequirementNode(a)}
}

// Setup constructs and validates the workflow graph:
//
//	get_user_requirements -> analyze_project -> generate_stories -> done
func (b *Builder) Setup() (*Graph, error) {
	g := NewGraph(sdlc.NodeGetRequirements)

	nodes := []Node{
		{
			Name: sdlc.NodeGetRequirements,
			Run:  b.getUserRequirements,
			Next: sdlc.NodeAnalyzeProject,
		},
		{
			Name: sdlc.NodeAnalyzeProject,
			Run:  b.node.AnalyzeProject,
			Next: sdlc.NodeGenerateStories,
		},
		{
			Name: sdlc.NodeGenerateStories,
			Run:  b.node.GenerateUserStories,
			Next: sdlc.NodeDone,
		},
	}

	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// getUserRequirements gates the flow until requirements have been supplied.
func (b *Builder) getUserRequirements(ctx context.Context, state *sdlc.WorkflowState) error {
	if len(state.Requirements) == 0 {
		return fmt.Errorf("no requirements provided for project %q", state.ProjectName)
	}
	telemetry.TrackNodeExecution(sdlc.NodeGetRequirements)
	return nil
}
