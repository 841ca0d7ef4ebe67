package agent

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWithState_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	client := NewGroqClient("key", "model", "test-project").
		WithMockResponder(func(prompt string) (string, error) {
			attempts++
			if attempts < 3 {
				return "", errors.New("transient failure")
			}
			return "ok", nil
		})
	client.backoffFn = func(i int) time.Duration { return time.Millisecond } // Fast backoff

	result, err := client.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestSendWithState_ExhaustsRetries(t *testing.T) {
	attempts := 0
	client := NewGroqClient("key", "model", "test-project").
		WithMockResponder(func(prompt string) (string, error) {
			attempts++
			return "", errors.New("persistent failure")
		})
	client.backoffFn = func(i int) time.Duration { return time.Millisecond }

	_, err := client.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 retries")
	assert.Contains(t, err.Error(), "persistent failure")
	// Initial attempt plus three retries.
	assert.Equal(t, 4, attempts)
}

func TestSendWithState_ContextCancellation(t *testing.T) {
	client := NewGroqClient("key", "model", "test-project").
		WithMockResponder(func(prompt string) (string, error) {
			return "", errors.New("always failing")
		})
	client.backoffFn = func(i int) time.Duration { return time.Minute } // Force waiting in backoff

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Send(ctx, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSendWithState_TracksTokenUsage(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	sm := NewStateManager(statePath)
	require.NoError(t, sm.Initialize(32000))

	client := NewGroqClient("key", "model", "test-project").
		WithMockResponder(func(prompt string) (string, error) {
			return "a response", nil
		}).
		WithStateManager(sm)

	_, err := client.Send(context.Background(), "a prompt of some length")
	require.NoError(t, err)

	state, err := sm.Load()
	require.NoError(t, err)
	assert.Greater(t, state.TokenUsage.TotalPromptTokens, 0)
	assert.Greater(t, state.TokenUsage.TotalResponseTokens, 0)
	assert.Equal(t,
		state.TokenUsage.TotalPromptTokens+state.TokenUsage.TotalResponseTokens,
		state.TokenUsage.TotalTokens,
	)
	assert.Equal(t, 0, state.TokenUsage.TruncationCount)
}

func TestSendWithState_TruncatesOversizedPrompt(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	sm := NewStateManager(statePath)
	require.NoError(t, sm.Save(State{MaxTokens: 40}))

	var received string
	client := NewGroqClient("key", "model", "test-project").
		WithMockResponder(func(prompt string) (string, error) {
			received = prompt
			return "ok", nil
		}).
		WithStateManager(sm)

	longPrompt := strings.Repeat("requirements ", 200)
	_, err := client.Send(context.Background(), longPrompt)
	require.NoError(t, err)

	assert.Less(t, len(received), len(longPrompt))
	assert.Contains(t, received, "[... truncated ...]")
	// Half the 40-token window is reserved for the response.
	assert.LessOrEqual(t, EstimateTokenCount(received), 20)

	state, err := sm.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, state.TokenUsage.TruncationCount)
}
