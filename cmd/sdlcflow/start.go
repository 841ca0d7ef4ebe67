package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sdlcflow/internal/notify"
	"sdlcflow/internal/render"
	"sdlcflow/internal/telemetry"
)

var (
	startRequirements []string
	startReqFile      string
	startNotify       bool
	startMetrics      bool
)

func init() {
	startCmd.Flags().StringArrayVarP(&startRequirements, "requirement", "r", nil, "Requirement (repeatable)")
	startCmd.Flags().StringVar(&startReqFile, "requirements-file", "", "File with one requirement per line")
	startCmd.Flags().BoolVar(&startNotify, "notify", false, "Send Slack notifications for this run")
	startCmd.Flags().BoolVar(&startMetrics, "metrics", false, "Expose Prometheus metrics while running")
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start [project name]",
	Short: "Run the full workflow: analysis and user story generation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectName := ""
		if len(args) > 0 {
			projectName = args[0]
		}
		if projectName == "" {
			prompt := &survey.Input{Message: "Project name:"}
			if err := survey.AskOne(prompt, &projectName, survey.WithValidator(survey.Required)); err != nil {
				return err
			}
		}

		requirements, err := gatherRequirements()
		if err != nil {
			return err
		}

		if startMetrics {
			go func() {
				port := viper.GetInt("metrics_port")
				if err := telemetry.StartMetricsServer(port); err != nil {
					telemetry.LogError("Metrics server stopped", err)
				}
			}()
		}

		executor, store, err := newExecutor(projectName, slog.Default())
		if err != nil {
			return err
		}
		defer store.Close()

		notifier := newRunNotifier()

		start, err := executor.StartWorkflow(cmd.Context(), projectName)
		if err != nil {
			return err
		}
		fmt.Printf("Workflow started with task_id: %s\n", start.TaskID)
		if err := notifier.WorkflowStarted(projectName, start.TaskID); err != nil {
			telemetry.LogError("Slack notification failed", err)
		}

		resp, err := executor.GenerateStories(cmd.Context(), start.TaskID, requirements)
		if err != nil {
			if nerr := notifier.WorkflowFailed(projectName, start.TaskID, err); nerr != nil {
				telemetry.LogError("Slack notification failed", nerr)
			}
			return err
		}

		fmt.Print(render.Markdown(render.BacklogMarkdown(resp.State)))
		fmt.Printf("Task ID: %s\n", resp.TaskID)

		if err := notifier.WorkflowCompleted(projectName, resp.TaskID, len(resp.State.Stories())); err != nil {
			telemetry.LogError("Slack notification failed", err)
		}
		return nil
	},
}

// gatherRequirements merges the flag, file and interactive sources.
func gatherRequirements() ([]string, error) {
	requirements := append([]string(nil), startRequirements...)

	if startReqFile != "" {
		data, err := os.ReadFile(startReqFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read requirements file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				requirements = append(requirements, line)
			}
		}
	}

	for len(requirements) == 0 {
		var entered string
		prompt := &survey.Multiline{Message: "Enter requirements (one per line):"}
		if err := survey.AskOne(prompt, &entered); err != nil {
			return nil, err
		}
		for _, line := range strings.Split(entered, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				requirements = append(requirements, line)
			}
		}
		if len(requirements) == 0 {
			fmt.Println("At least one requirement is needed.")
		}
	}

	return requirements, nil
}

// newRunNotifier builds a Slack notifier honoring the --notify flag.
func newRunNotifier() *notify.Notifier {
	if !startNotify {
		viper.Set("notifications.slack.enabled", false)
	}
	return notify.NewNotifier(func(format string, args ...any) {
		telemetry.LogInfo(fmt.Sprintf(format, args...))
	})
}
