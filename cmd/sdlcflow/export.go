package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sdlcflow/internal/jira"
	"sdlcflow/internal/sdlc"
)

var exportProjectKey string

func init() {
	exportCmd.Flags().StringVar(&exportProjectKey, "project-key", "", "Jira project key (defaults to jira.project_key config)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <task-id>",
	Short: "Export a run's user stories to Jira as epics and stories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectKey := exportProjectKey
		if projectKey == "" {
			projectKey = viper.GetString("jira.project_key")
		}
		if projectKey == "" {
			return fmt.Errorf("a Jira project key is required (--project-key or jira.project_key)")
		}

		baseURL := viper.GetString("jira.url")
		username := viper.GetString("jira.username")
		token := viper.GetString("jira.token")
		if baseURL == "" || username == "" || token == "" {
			return fmt.Errorf("jira.url, jira.username and jira.token must be configured")
		}

		store, err := newStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.GetTask(args[0])
		if err != nil {
			return err
		}

		var state sdlc.WorkflowState
		if err := json.Unmarshal(rec.State, &state); err != nil {
			return fmt.Errorf("failed to decode stored state: %w", err)
		}

		client := jira.NewClient(baseURL, username, token)
		if err := client.Authenticate(cmd.Context()); err != nil {
			return fmt.Errorf("jira authentication failed: %w", err)
		}

		result, err := jira.ExportBacklog(cmd.Context(), client, projectKey, &state)
		if err != nil {
			return err
		}

		fmt.Printf("Created %d epics and %d stories in %s:\n", len(result.EpicKeys), len(result.StoryKeys), projectKey)
		for id, key := range result.StoryKeys {
			fmt.Printf("  %s -> %s\n", id, key)
		}
		return nil
	},
}
