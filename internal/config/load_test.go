package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load("")

	assert.Equal(t, "groq", viper.GetString("provider"))
	assert.Equal(t, "llama-3.1-8b-instant", viper.GetString("model"))
	assert.InDelta(t, 0.1, viper.GetFloat64("temperature"), 1e-9)
	assert.Equal(t, 32000, viper.GetInt("agent.max_tokens"))
	assert.Equal(t, 2112, viper.GetInt("metrics_port"))
	assert.Equal(t, "sqlite", viper.GetString("db.type"))
	assert.True(t, viper.GetBool("notifications.slack.events.on_failure"))
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SDLCFLOW_PROVIDER", "ollama")
	t.Setenv("SDLCFLOW_MODEL", "llama3")

	Load("")

	assert.Equal(t, "ollama", viper.GetString("provider"))
	assert.Equal(t, "llama3", viper.GetString("model"))
}

func TestLoad_GroqKeyFallback(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SDLCFLOW_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	Load("")

	assert.Equal(t, "gsk-test", viper.GetString("api_key"))
}

func TestValidateConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load("")

	require.NoError(t, ValidateConfig())
}

func TestValidateConfig_ReportsAllProblems(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load("")

	viper.Set("provider", "bard")
	viper.Set("model", "")
	viper.Set("temperature", 3.5)
	viper.Set("agent.max_tokens", 0)
	viper.Set("metrics_port", 99999)
	viper.Set("db.type", "mongo")

	err := ValidateConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
	assert.Contains(t, err.Error(), "model must not be empty")
	assert.Contains(t, err.Error(), "temperature")
	assert.Contains(t, err.Error(), "max_tokens")
	assert.Contains(t, err.Error(), "metrics_port")
	assert.Contains(t, err.Error(), "db.type")
}

func TestValidateConfig_PostgresNeedsConnection(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load("")

	viper.Set("db.type", "postgres")
	err := ValidateConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db.connection is required")

	viper.Set("db.connection", "postgres://localhost/sdlcflow")
	require.NoError(t, ValidateConfig())
}
