package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sdlcflow/internal/db"
	"sdlcflow/internal/sdlc"
	"sdlcflow/internal/telemetry"
)

// Executor drives a workflow graph over persisted state. Every node
// execution is followed by a save so a run can be resumed by task id
// after a crash.
type Executor struct {
	graph  *Graph
	store  db.Store
	logger *slog.Logger
}

// StartResponse is returned when a workflow run is created.
type StartResponse struct {
	TaskID string              `json:"task_id"`
	State  *sdlc.WorkflowState `json:"state"`
}

// StateResponse wraps the state after one or more nodes have run.
type StateResponse struct {
	TaskID string              `json:"task_id"`
	State  *sdlc.WorkflowState `json:"state"`
}

// NewExecutor creates an executor over the given graph and store.
func NewExecutor(g *Graph, store db.Store, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{graph: g, store: store, logger: logger}
}

// StartWorkflow creates a new run for the project and persists its
// initial state. The returned task id is the handle for every later call.
func (e *Executor) StartWorkflow(ctx context.Context, projectName string) (*StartResponse, error) {
	if projectName == "" {
		return nil, fmt.Errorf("project name is required")
	}

	taskID := uuid.NewString()
	state := sdlc.NewWorkflowState(taskID, projectName)

	if err := e.saveState(state); err != nil {
		return nil, fmt.Errorf("failed to persist initial state: %w", err)
	}

	telemetry.TrackWorkflowStarted()
	e.logger.Info("Workflow started", "task_id", taskID, "project", projectName)

	return &StartResponse{TaskID: taskID, State: state}, nil
}

// GenerateStories records the requirements on the run and executes the
// graph from its current position to completion. Calling it on a run that
// already completed returns the stored state unchanged.
func (e *Executor) GenerateStories(ctx context.Context, taskID string, requirements []string) (*StateResponse, error) {
	state, err := e.LoadState(taskID)
	if err != nil {
		return nil, err
	}

	if state.Status == sdlc.StatusCompleted {
		return &StateResponse{TaskID: taskID, State: state}, nil
	}

	if len(requirements) == 0 {
		return nil, fmt.Errorf("at least one requirement is required")
	}
	state.Requirements = append([]string(nil), requirements...)

	if err := e.run(ctx, state); err != nil {
		return nil, err
	}
	return &StateResponse{TaskID: taskID, State: state}, nil
}

// Resume re-runs a workflow from its stored position, e.g. after a node
// failure or process crash.
func (e *Executor) Resume(ctx context.Context, taskID string) (*StateResponse, error) {
	state, err := e.LoadState(taskID)
	if err != nil {
		return nil, err
	}

	if state.Status == sdlc.StatusCompleted {
		return &StateResponse{TaskID: taskID, State: state}, nil
	}

	if err := e.run(ctx, state); err != nil {
		return nil, err
	}
	return &StateResponse{TaskID: taskID, State: state}, nil
}

// run executes nodes from state.NextNode until the terminal sentinel,
// persisting after every step.
func (e *Executor) run(ctx context.Context, state *sdlc.WorkflowState) error {
	state.Status = sdlc.StatusRunning
	state.Error = ""

	for state.NextNode != sdlc.NodeDone {
		node, ok := e.graph.Lookup(state.NextNode)
		if !ok {
			return e.fail(state, fmt.Errorf("unknown node: %s", state.NextNode))
		}

		e.logger.Debug("Executing node", "task_id", state.TaskID, "node", node.Name)
		if err := node.Run(ctx, state); err != nil {
			return e.fail(state, fmt.Errorf("node %s failed: %w", node.Name, err))
		}

		state.NextNode = node.Next
		state.UpdatedAt = time.Now()
		if err := e.saveState(state); err != nil {
			return fmt.Errorf("failed to persist state after %s: %w", node.Name, err)
		}
	}

	state.Status = sdlc.StatusCompleted
	if err := e.saveState(state); err != nil {
		return fmt.Errorf("failed to persist final state: %w", err)
	}

	telemetry.TrackWorkflowFinished(sdlc.StatusCompleted)
	telemetry.TrackStoriesGenerated(state.ProjectName, len(state.Stories()))
	e.logger.Info("Workflow completed", "task_id", state.TaskID, "stories", len(state.Stories()))
	return nil
}

// fail marks the run failed and persists it; the original error wins over
// any save error.
func (e *Executor) fail(state *sdlc.WorkflowState, cause error) error {
	state.Status = sdlc.StatusFailed
	state.Error = cause.Error()
	state.UpdatedAt = time.Now()
	if err := e.saveState(state); err != nil {
		e.logger.Error("Failed to persist failed state", "task_id", state.TaskID, "error", err)
	}
	telemetry.TrackWorkflowFinished(sdlc.StatusFailed)
	e.logger.Error("Workflow failed", "task_id", state.TaskID, "error", cause)
	return cause
}

// LoadState fetches and deserializes the state for a task id.
func (e *Executor) LoadState(taskID string) (*sdlc.WorkflowState, error) {
	rec, err := e.store.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	var state sdlc.WorkflowState
	if err := json.Unmarshal(rec.State, &state); err != nil {
		return nil, fmt.Errorf("failed to decode stored state for %s: %w", taskID, err)
	}
	return &state, nil
}

func (e *Executor) saveState(state *sdlc.WorkflowState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return e.store.SaveTask(db.TaskRecord{
		ID:          state.TaskID,
		ProjectName: state.ProjectName,
		Status:      state.Status,
		State:       blob,
		CreatedAt:   state.CreatedAt,
		UpdatedAt:   state.UpdatedAt,
	})
}
