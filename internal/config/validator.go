package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var validProviders = map[string]bool{
	"groq":   true,
	"openai": true,
	"ollama": true,
	"mock":   true,
}

var validStores = map[string]bool{
	"sqlite":     true,
	"sqlite3":    true,
	"postgres":   true,
	"postgresql": true,
	"":           true,
}

// ValidateConfig validates configuration values after viper has loaded
// them. All problems are reported at once.
func ValidateConfig() error {
	var errors []string

	if p := viper.GetString("provider"); !validProviders[p] {
		errors = append(errors, fmt.Sprintf("unknown provider: %q (valid: groq, openai, ollama, mock)", p))
	}

	if viper.GetString("model") == "" {
		errors = append(errors, "model must not be empty")
	}

	if t := viper.GetFloat64("temperature"); t < 0 || t > 2 {
		errors = append(errors, fmt.Sprintf("temperature must be in [0, 2], got: %v", t))
	}

	if m := viper.GetInt("agent.max_tokens"); m <= 0 {
		errors = append(errors, fmt.Sprintf("agent.max_tokens must be positive, got: %d", m))
	}

	if port := viper.GetInt("metrics_port"); port < 0 || port > 65535 {
		errors = append(errors, fmt.Sprintf("metrics_port must be a valid port, got: %d", port))
	}

	dbType := strings.ToLower(viper.GetString("db.type"))
	if !validStores[dbType] {
		errors = append(errors, fmt.Sprintf("unknown db.type: %q (valid: sqlite, postgres)", dbType))
	}
	if (dbType == "postgres" || dbType == "postgresql") && viper.GetString("db.connection") == "" {
		errors = append(errors, "db.connection is required when db.type is postgres")
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}
