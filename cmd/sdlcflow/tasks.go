package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sdlcflow/internal/render"
	"sdlcflow/internal/sdlc"
)

var tasksLimit int

func init() {
	tasksCmd.Flags().IntVar(&tasksLimit, "limit", 20, "Maximum number of tasks to list")
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resumeCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List persisted workflow runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.ListTasks(tasksLimit)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No workflow runs found.")
			return nil
		}

		fmt.Printf("%-38s %-24s %-10s %s\n", "TASK ID", "PROJECT", "STATUS", "UPDATED")
		for _, rec := range records {
			fmt.Printf("%-38s %-24s %-10s %s\n",
				rec.ID,
				rec.ProjectName,
				rec.Status,
				rec.UpdatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Render a stored workflow run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		if state.Status == sdlc.StatusFailed {
			fmt.Fprintf(os.Stderr, "Run failed: %s\n", state.Error)
		}
		fmt.Print(render.Markdown(render.BacklogMarkdown(&state)))
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume <task-id>",
	Short: "Resume an unfinished workflow run from its last saved node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		// Need the project name to wire the agent; peek at the record first.
		rec, err := store.GetTask(args[0])
		store.Close()
		if err != nil {
			return err
		}

		executor, store2, err := newExecutor(rec.ProjectName, slog.Default())
		if err != nil {
			return err
		}
		defer store2.Close()

		resp, err := executor.Resume(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Print(render.Markdown(render.BacklogMarkdown(resp.State)))
		return nil
	},
}
