package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sdlcflow/internal/config"
	"sdlcflow/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sdlcflow",
	Short: "sdlcflow: LLM-driven requirements analysis and backlog generation",
	Long: `sdlcflow turns a project name and a list of requirements into a
structured project analysis and a groomed user-story backlog by driving
an LLM through a small workflow graph. Runs are persisted and can be
resumed, exported to Jira, and announced on Slack.`,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'sdlcflow --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("model", "", "Model to use (overrides config and SDLCFLOW_MODEL env var)")
	rootCmd.PersistentFlags().String("provider", "", "Agent provider (groq, openai, ollama, mock)")
	rootCmd.PersistentFlags().Bool("mock", false, "Use the mock agent (no API keys required)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("mock", rootCmd.PersistentFlags().Lookup("mock"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.Load(cfgFile)

	if err := config.ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}

	telemetry.NewLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
}
