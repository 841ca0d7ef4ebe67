package agent

import (
	"context"
	"fmt"
	"time"

	"sdlcflow/internal/telemetry"
)

// AgentClient is the common surface of provider clients that participate
// in retry and token accounting.
type AgentClient interface {
	SendOnce(ctx context.Context, prompt string) (string, error)
	GetProject() string
	GetStateManager() *StateManager
	GetBackoffFn() func(int) time.Duration
	GetDefaultMaxTokens() int
}

const maxRetries = 3

// SendWithState wraps a provider call with token budgeting, usage tracking
// and exponential-backoff retries.
func SendWithState(ctx context.Context, client AgentClient, prompt string) (string, error) {
	project := client.GetProject()
	stateManager := client.GetStateManager()

	var state State
	var trackState bool
	if stateManager != nil {
		var err error
		state, err = stateManager.Load()
		if err != nil {
			return "", fmt.Errorf("failed to load state: %w", err)
		}
		trackState = true

		maxTokens := state.MaxTokens
		if maxTokens == 0 {
			maxTokens = client.GetDefaultMaxTokens()
		}

		// Keep half the window free for the response.
		promptTokens := EstimateTokenCount(prompt)
		available := maxTokens / 2
		if promptTokens > available {
			telemetry.LogInfo("Prompt exceeds token budget, truncating", "project", project, "actual", promptTokens, "available", available)
			prompt = TruncateToTokenLimit(prompt, available)
			promptTokens = EstimateTokenCount(prompt)
			state.TokenUsage.TruncationCount++
		}

		state.TokenUsage.TotalPromptTokens += promptTokens
		telemetry.TrackTokenUsage(project, promptTokens)
	}

	backoffFn := client.GetBackoffFn()
	if backoffFn == nil {
		backoffFn = func(retry int) time.Duration {
			return time.Duration(1<<uint(retry-1)) * time.Second
		}
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			wait := backoffFn(i)
			telemetry.LogInfo("Retrying agent call", "project", project, "retry", i, "wait", wait, "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		result, err := client.SendOnce(ctx, prompt)
		if err == nil {
			if trackState {
				responseTokens := EstimateTokenCount(result)
				state.TokenUsage.TotalResponseTokens += responseTokens
				state.TokenUsage.TotalTokens = state.TokenUsage.TotalPromptTokens + state.TokenUsage.TotalResponseTokens
				telemetry.TrackTokenUsage(project, responseTokens)
				if err := stateManager.Save(state); err != nil {
					telemetry.LogError("Failed to save agent state", err, "project", project)
				}
			}
			return result, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
