package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/viper"

	"sdlcflow/internal/agent"
	"sdlcflow/internal/db"
	"sdlcflow/internal/graph"
)

// newAgentClient resolves the configured provider into an Agent. The
// --mock flag wins over everything else.
func newAgentClient(project string) (agent.Agent, error) {
	provider := viper.GetString("provider")
	if viper.GetBool("mock") {
		provider = "mock"
	}
	model := viper.GetString("model")
	apiKey := viper.GetString("api_key")

	a, err := agent.NewAgent(provider, apiKey, model, project)
	if err != nil {
		return nil, err
	}

	// Token accounting only applies to the HTTP-backed clients.
	stateFile := filepath.Join(".sdlcflow", "agent_state.json")
	maxTokens := viper.GetInt("agent.max_tokens")
	switch c := a.(type) {
	case *agent.GroqClient:
		sm := agent.NewStateManager(stateFile)
		if err := sm.Initialize(maxTokens); err == nil {
			c.WithStateManager(sm)
		}
		c.WithTemperature(viper.GetFloat64("temperature"))
	case *agent.OpenAIClient:
		sm := agent.NewStateManager(stateFile)
		if err := sm.Initialize(maxTokens); err == nil {
			c.WithStateManager(sm)
		}
	}

	return a, nil
}

// newStore opens the configured task store.
func newStore() (db.Store, error) {
	store, err := db.NewStore(db.StoreConfig{
		Type:             viper.GetString("db.type"),
		ConnectionString: viper.GetString("db.connection"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}
	return store, nil
}

// newExecutor wires agent, graph and store into a ready executor.
func newExecutor(project string, logger *slog.Logger) (*graph.Executor, db.Store, error) {
	a, err := newAgentClient(project)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize agent: %w", err)
	}

	g, err := graph.NewBuilder(a).Setup()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build workflow graph: %w", err)
	}

	store, err := newStore()
	if err != nil {
		return nil, nil, err
	}

	return graph.NewExecutor(g, store, logger), store, nil
}
