package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from .env, config file and
// environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SDLCFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The Groq key is conventionally exported without the app prefix.
	if os.Getenv("SDLCFLOW_API_KEY") == "" && os.Getenv("GROQ_API_KEY") != "" {
		viper.SetDefault("api_key", os.Getenv("GROQ_API_KEY"))
	}

	setDefaults()

	// Missing config file is not an error; defaults and env cover it.
	_ = viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault("provider", "groq")
	viper.SetDefault("model", "llama-3.1-8b-instant")
	viper.SetDefault("temperature", 0.1)
	viper.SetDefault("agent.max_tokens", 32000)
	viper.SetDefault("verbose", false)
	viper.SetDefault("metrics_port", 2112)

	viper.SetDefault("db.type", "sqlite")
	viper.SetDefault("db.connection", "")

	viper.SetDefault("jira.url", os.Getenv("JIRA_URL"))
	viper.SetDefault("jira.username", os.Getenv("JIRA_USERNAME"))
	viper.SetDefault("jira.token", os.Getenv("JIRA_API_TOKEN"))
	viper.SetDefault("jira.project_key", "")

	slackEnabled := os.Getenv("SLACK_BOT_USER_TOKEN") != ""
	viper.SetDefault("notifications.slack.enabled", slackEnabled)
	viper.SetDefault("notifications.slack.channel", "#general")
	viper.SetDefault("notifications.slack.events.on_start", true)
	viper.SetDefault("notifications.slack.events.on_success", true)
	viper.SetDefault("notifications.slack.events.on_failure", true)
}
