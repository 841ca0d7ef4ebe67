package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State is the persistent per-project agent state: the token budget and
// cumulative usage across workflow runs.
type State struct {
	MaxTokens  int        `json:"max_tokens,omitempty"`
	TokenUsage TokenUsage `json:"token_usage,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TokenUsage tracks token consumption statistics.
type TokenUsage struct {
	TotalPromptTokens   int `json:"total_prompt_tokens"`
	TotalResponseTokens int `json:"total_response_tokens"`
	TotalTokens         int `json:"total_tokens"`
	TruncationCount     int `json:"truncation_count"`
}

// StateManager handles saving and loading agent state.
type StateManager struct {
	FilePath string
	mu       sync.RWMutex
}

// NewStateManager creates a new state manager.
func NewStateManager(filePath string) *StateManager {
	return &StateManager{FilePath: filePath}
}

// Save writes the state to disk.
func (sm *StateManager) Save(state State) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	state.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(sm.FilePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(sm.FilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// Load reads the state from disk. A missing file yields a fresh state
// with the default budget.
func (sm *StateManager) Load() (State, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	var state State

	data, err := os.ReadFile(sm.FilePath)
	if os.IsNotExist(err) {
		return State{MaxTokens: 32000}, nil
	}
	if err != nil {
		return state, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	return state, nil
}

// Initialize sets the token budget if it has not been set yet.
func (sm *StateManager) Initialize(maxTokens int) error {
	state, err := sm.Load()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if state.MaxTokens == 0 && maxTokens > 0 {
		state.MaxTokens = maxTokens
		return sm.Save(state)
	}

	return nil
}
