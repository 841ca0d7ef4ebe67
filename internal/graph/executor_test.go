package graph

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdlcflow/internal/agent"
	"sdlcflow/internal/db"
	"sdlcflow/internal/sdlc"
	"sdlcflow/internal/telemetry"
)

var testRequirements = []string{
	"Users can browse the products",
	"Users should be able to add the product in the cart",
	"Users should be able to do the payment",
	"Users should be able to see their order history",
}

func newTestExecutor(t *testing.T) (*Executor, *agent.MockAgent) {
	t.Helper()

	mock := agent.NewMockAgent()
	g, err := NewBuilder(mock).Setup()
	require.NoError(t, err)

	store, err := db.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewExecutor(g, store, telemetry.NewTestLogger()), mock
}

func TestExecutor_StartWorkflow(t *testing.T) {
	executor, _ := newTestExecutor(t)

	resp, err := executor.StartWorkflow(context.Background(), "E-Commerce Platform")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.TaskID)
	assert.Equal(t, sdlc.StatusPending, resp.State.Status)
	assert.Equal(t, sdlc.NodeGetRequirements, resp.State.NextNode)
	assert.Nil(t, resp.State.ProjectAnalysis)

	// The initial state is already on disk and loadable by task id.
	stored, err := executor.LoadState(resp.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "E-Commerce Platform", stored.ProjectName)
	assert.Equal(t, sdlc.StatusPending, stored.Status)
}

func TestExecutor_StartWorkflow_RequiresProjectName(t *testing.T) {
	executor, _ := newTestExecutor(t)

	_, err := executor.StartWorkflow(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project name")
}

func TestExecutor_GenerateStories(t *testing.T) {
	executor, _ := newTestExecutor(t)

	start, err := executor.StartWorkflow(context.Background(), "E-Commerce Platform")
	require.NoError(t, err)

	resp, err := executor.GenerateStories(context.Background(), start.TaskID, testRequirements)
	require.NoError(t, err)

	state := resp.State
	assert.Equal(t, sdlc.StatusCompleted, state.Status)
	assert.Equal(t, sdlc.NodeDone, state.NextNode)
	require.NotNil(t, state.ProjectAnalysis)
	assert.Equal(t, "E-Commerce", state.ProjectAnalysis.Domain)

	stories := state.Stories()
	require.Len(t, stories, 2)
	for _, s := range stories {
		assert.Empty(t, s.Assignee)
	}

	// The completed state is persisted.
	stored, err := executor.LoadState(start.TaskID)
	require.NoError(t, err)
	assert.Equal(t, sdlc.StatusCompleted, stored.Status)
	assert.Len(t, stored.Stories(), 2)
}

func TestExecutor_GenerateStories_RequiresRequirements(t *testing.T) {
	executor, _ := newTestExecutor(t)

	start, err := executor.StartWorkflow(context.Background(), "Shop")
	require.NoError(t, err)

	_, err = executor.GenerateStories(context.Background(), start.TaskID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requirement")
}

func TestExecutor_GenerateStories_UnknownTask(t *testing.T) {
	executor, _ := newTestExecutor(t)

	_, err := executor.GenerateStories(context.Background(), "no-such-task", testRequirements)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}

func TestExecutor_GenerateStories_CompletedRunIsIdempotent(t *testing.T) {
	executor, mock := newTestExecutor(t)

	start, err := executor.StartWorkflow(context.Background(), "Shop")
	require.NoError(t, err)
	first, err := executor.GenerateStories(context.Background(), start.TaskID, testRequirements)
	require.NoError(t, err)

	// A second call must return the stored result without hitting the agent.
	callsBefore := len(mock.Prompts)
	second, err := executor.GenerateStories(context.Background(), start.TaskID, []string{"different requirements"})
	require.NoError(t, err)

	assert.Equal(t, callsBefore, len(mock.Prompts))
	assert.Equal(t, first.State.Requirements, second.State.Requirements)
	assert.Equal(t, len(first.State.Stories()), len(second.State.Stories()))
}

func TestExecutor_FailureIsPersisted(t *testing.T) {
	executor, mock := newTestExecutor(t)
	mock.SetError(errors.New("api down"))

	start, err := executor.StartWorkflow(context.Background(), "Shop")
	require.NoError(t, err)

	_, err = executor.GenerateStories(context.Background(), start.TaskID, testRequirements)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze_project")

	stored, err := executor.LoadState(start.TaskID)
	require.NoError(t, err)
	assert.Equal(t, sdlc.StatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "api down")
	// The failing node stays current so a resume retries it.
	assert.Equal(t, sdlc.NodeAnalyzeProject, stored.NextNode)
}

func TestExecutor_Resume(t *testing.T) {
	executor, mock := newTestExecutor(t)
	mock.SetError(errors.New("api down"))

	start, err := executor.StartWorkflow(context.Background(), "Shop")
	require.NoError(t, err)
	_, err = executor.GenerateStories(context.Background(), start.TaskID, testRequirements)
	require.Error(t, err)

	// The outage ends; resuming picks up at the failed node.
	mock.SetError(nil)
	resp, err := executor.Resume(context.Background(), start.TaskID)
	require.NoError(t, err)

	assert.Equal(t, sdlc.StatusCompleted, resp.State.Status)
	require.NotNil(t, resp.State.ProjectAnalysis)
	assert.NotEmpty(t, resp.State.Stories())
	assert.Equal(t, testRequirements, resp.State.Requirements)
}

func TestExecutor_Resume_CompletedRun(t *testing.T) {
	executor, _ := newTestExecutor(t)

	start, err := executor.StartWorkflow(context.Background(), "Shop")
	require.NoError(t, err)
	_, err = executor.GenerateStories(context.Background(), start.TaskID, testRequirements)
	require.NoError(t, err)

	resp, err := executor.Resume(context.Background(), start.TaskID)
	require.NoError(t, err)
	assert.Equal(t, sdlc.StatusCompleted, resp.State.Status)
}
