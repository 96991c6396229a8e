package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KuzscoTech/maas-management/internal/platform"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage tasks",
	Long: `Manage MAAS tasks.

A task is a unit of work submitted to an agent. Tasks move through
pending, running, and then completed, failed, or cancelled.

Subcommands:
  list    List tasks
  get     Show one task with its result
  create  Submit a task to an agent
  cancel  Cancel a task

Examples:
  maas task list --env <environment-id>
  maas task create --agent <agent-id> --param prompt="summarize the repo"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		environmentID, _ := cmd.Flags().GetString("env")
		agentID, _ := cmd.Flags().GetString("agent")

		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		tasks, err := a.client.ListTasks(cmd.Context(), platform.TaskFilter{
			EnvironmentID: environmentID,
			AgentID:       agentID,
		})
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tAGENT\tCREATED")
		for _, task := range tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				task.ID, task.Type, task.Status, task.AgentID, task.CreatedAt)
		}
		return w.Flush()
	},
}

var taskGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		task, err := a.client.GetTask(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}

		fmt.Printf("ID:          %s\n", task.ID)
		fmt.Printf("Type:        %s\n", task.Type)
		fmt.Printf("Status:      %s\n", task.Status)
		fmt.Printf("Agent:       %s\n", task.AgentID)
		fmt.Printf("Environment: %s\n", task.EnvironmentID)
		fmt.Printf("Created:     %s\n", task.CreatedAt)
		if task.StartedAt != "" {
			fmt.Printf("Started:     %s\n", task.StartedAt)
		}
		if task.CompletedAt != "" {
			fmt.Printf("Completed:   %s\n", task.CompletedAt)
		}
		if task.Error != "" {
			fmt.Printf("Error:       %s\n", task.Error)
		}
		if len(task.Result) > 0 {
			data, err := json.MarshalIndent(task.Result, "", "  ")
			if err == nil {
				fmt.Printf("Result:\n%s\n", data)
			}
		}
		return nil
	},
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a task to an agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		agentID, _ := cmd.Flags().GetString("agent")
		params, _ := cmd.Flags().GetStringToString("param")

		if agentID == "" {
			return fmt.Errorf("--agent is required")
		}

		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		parameters := make(map[string]any, len(params))
		for k, v := range params {
			parameters[k] = v
		}

		task, err := a.client.CreateTask(cmd.Context(), platform.CreateTaskRequest{
			AgentID:    agentID,
			Parameters: parameters,
		})
		if err != nil {
			return fmt.Errorf("create task: %w", err)
		}

		fmt.Printf("Created task %s, status: %s\n", task.ID, task.Status)
		return nil
	},
}

var taskCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		task, err := a.client.CancelTask(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("cancel task: %w", err)
		}

		fmt.Printf("Task %s is %s\n", task.ID, task.Status)
		return nil
	},
}

func init() {
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskGetCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskCancelCmd)

	taskListCmd.Flags().String("env", "", "Filter by environment ID")
	taskListCmd.Flags().String("agent", "", "Filter by agent ID")
	taskCreateCmd.Flags().String("agent", "", "Target agent ID (required)")
	taskCreateCmd.Flags().StringToString("param", nil, "Task parameter key=value (repeatable)")

	rootCmd.AddCommand(taskCmd)
}
