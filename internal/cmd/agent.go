package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KuzscoTech/maas-management/internal/platform"
)

var agentCmd = &cobra.Command{
	Use:     "agent",
	Aliases: []string{"agents"},
	Short:   "Manage agents",
	Long: `Manage MAAS agents.

Agents are AI workers deployed into environments. Supported types:
code_generator, research, testing, github_integration, basic_tools.

Subcommands:
  list    List agents
  get     Show one agent
  deploy  Deploy a new agent into an environment
  start   Start an agent
  stop    Stop an agent
  delete  Delete an agent

Examples:
  maas agent list --env <environment-id>
  maas agent deploy --name coder --type code_generator --env <environment-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		environmentID, _ := cmd.Flags().GetString("env")

		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		agents, err := a.client.ListAgents(cmd.Context(), environmentID)
		if err != nil {
			return fmt.Errorf("list agents: %w", err)
		}

		if len(agents) == 0 {
			fmt.Println("No agents.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tSTATUS\tENVIRONMENT\tID")
		for _, agent := range agents {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				agent.Name, agent.Type, agent.Status, agent.EnvironmentID, agent.ID)
		}
		return w.Flush()
	},
}

var agentGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		agent, err := a.client.GetAgent(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get agent: %w", err)
		}

		printAgent(agent)
		return nil
	},
}

var agentDeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a new agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		agentType, _ := cmd.Flags().GetString("type")
		environmentID, _ := cmd.Flags().GetString("env")

		if name == "" {
			return fmt.Errorf("--name is required")
		}
		if agentType == "" {
			return fmt.Errorf("--type is required")
		}
		if environmentID == "" {
			return fmt.Errorf("--env is required")
		}

		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		agent, err := a.client.DeployAgent(cmd.Context(), platform.DeployAgentRequest{
			Name:          name,
			Type:          agentType,
			EnvironmentID: environmentID,
		})
		if err != nil {
			return fmt.Errorf("deploy agent: %w", err)
		}

		fmt.Printf("Deployed agent %s (%s), status: %s\n", agent.Name, agent.ID, agent.Status)
		return nil
	},
}

var agentStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		agent, err := a.client.StartAgent(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("start agent: %w", err)
		}

		fmt.Printf("Agent %s is %s\n", agent.Name, agent.Status)
		return nil
	},
}

var agentStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		agent, err := a.client.StopAgent(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("stop agent: %w", err)
		}

		fmt.Printf("Agent %s is %s\n", agent.Name, agent.Status)
		return nil
	},
}

var agentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		if err := a.client.DeleteAgent(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete agent: %w", err)
		}

		fmt.Printf("Deleted agent %s\n", args[0])
		return nil
	},
}

func printAgent(agent *platform.Agent) {
	fmt.Printf("Name:        %s\n", agent.Name)
	fmt.Printf("ID:          %s\n", agent.ID)
	fmt.Printf("Type:        %s\n", agent.Type)
	fmt.Printf("Status:      %s\n", agent.Status)
	fmt.Printf("Environment: %s\n", agent.EnvironmentID)
	fmt.Printf("Created:     %s\n", agent.CreatedAt)
}

func init() {
	agentCmd.AddCommand(agentListCmd)
	agentCmd.AddCommand(agentGetCmd)
	agentCmd.AddCommand(agentDeployCmd)
	agentCmd.AddCommand(agentStartCmd)
	agentCmd.AddCommand(agentStopCmd)
	agentCmd.AddCommand(agentDeleteCmd)

	agentListCmd.Flags().String("env", "", "Filter by environment ID")
	agentDeployCmd.Flags().String("name", "", "Agent name (required)")
	agentDeployCmd.Flags().String("type", "", "Agent type (required)")
	agentDeployCmd.Flags().String("env", "", "Target environment ID (required)")

	rootCmd.AddCommand(agentCmd)
}
