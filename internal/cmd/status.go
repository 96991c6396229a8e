package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show platform health and metrics",
	Long: `Show the platform health summary and system metrics.

The health check itself needs no session; metrics do.

Examples:
  maas status
  maas status --metrics
  maas status --agents --env <environment-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		showMetrics, _ := cmd.Flags().GetBool("metrics")
		showAgents, _ := cmd.Flags().GetBool("agents")
		environmentID, _ := cmd.Flags().GetString("env")

		a, err := getApp()
		if err != nil {
			return err
		}

		health, err := a.client.GetHealth(cmd.Context())
		if err != nil {
			return fmt.Errorf("platform unreachable: %w", err)
		}

		fmt.Printf("Status:  %s\n", health.Status)
		fmt.Printf("Service: %s\n", health.Service)
		fmt.Printf("Version: %s\n", health.Version)

		if !showMetrics && !showAgents {
			return nil
		}

		// Metrics endpoints are protected.
		if _, err := requireSession(cmd.Context()); err != nil {
			return err
		}

		if showMetrics {
			metrics, err := a.client.GetSystemMetrics(cmd.Context())
			if err != nil {
				return fmt.Errorf("get system metrics: %w", err)
			}
			fmt.Println()
			fmt.Printf("CPU:          %.1f%%\n", metrics.CPUUsage)
			fmt.Printf("Memory:       %.1f%%\n", metrics.MemoryUsage)
			fmt.Printf("Disk:         %.1f%%\n", metrics.DiskUsage)
			fmt.Printf("Agents:       %d active\n", metrics.ActiveAgents)
			fmt.Printf("Tasks:        %d running\n", metrics.RunningTasks)
			fmt.Printf("Environments: %d\n", metrics.TotalEnvironments)
		}

		if showAgents {
			agentMetrics, err := a.client.GetAgentMetrics(cmd.Context(), environmentID)
			if err != nil {
				return fmt.Errorf("get agent metrics: %w", err)
			}
			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tTASKS\tOK\tFAILED\tAVG TIME\tLAST ACTIVITY")
			for _, am := range agentMetrics {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2fs\t%s\n",
					am.AgentName, am.TotalTasks, am.SuccessfulTasks, am.FailedTasks,
					am.AverageExecutionTime, am.LastActivity)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("metrics", false, "Include system metrics")
	statusCmd.Flags().Bool("agents", false, "Include per-agent metrics")
	statusCmd.Flags().String("env", "", "Limit agent metrics to one environment")

	rootCmd.AddCommand(statusCmd)
}
