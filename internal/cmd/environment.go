package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KuzscoTech/maas-management/internal/platform"
)

var envCmd = &cobra.Command{
	Use:     "env",
	Aliases: []string{"environment", "environments"},
	Short:   "Manage environments",
	Long: `Manage MAAS environments.

An environment is an isolated workspace that agents are deployed into.

Subcommands:
  list    List environments
  get     Show one environment
  create  Create an environment
  update  Update an environment
  delete  Delete an environment

Examples:
  maas env list
  maas env create --name staging --description "Staging workloads"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List environments",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		envs, err := a.client.ListEnvironments(cmd.Context())
		if err != nil {
			return fmt.Errorf("list environments: %w", err)
		}

		if len(envs) == 0 {
			fmt.Println("No environments.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTATUS\tID\tCREATED")
		for _, env := range envs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", env.Name, env.Status, env.ID, env.CreatedAt)
		}
		return w.Flush()
	},
}

var envGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		env, err := a.client.GetEnvironment(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get environment: %w", err)
		}

		printEnvironment(env)
		return nil
	},
}

var envCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")

		if name == "" {
			return fmt.Errorf("--name is required")
		}

		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		env, err := a.client.CreateEnvironment(cmd.Context(), platform.CreateEnvironmentRequest{
			Name:        name,
			Description: description,
		})
		if err != nil {
			return fmt.Errorf("create environment: %w", err)
		}

		fmt.Printf("Created environment %s (%s)\n", env.Name, env.ID)
		return nil
	},
}

var envUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")

		if name == "" && description == "" {
			return fmt.Errorf("nothing to update: pass --name or --description")
		}

		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		env, err := a.client.UpdateEnvironment(cmd.Context(), args[0], platform.UpdateEnvironmentRequest{
			Name:        name,
			Description: description,
		})
		if err != nil {
			return fmt.Errorf("update environment: %w", err)
		}

		fmt.Printf("Updated environment %s\n", env.ID)
		return nil
	},
}

var envDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		if err := a.client.DeleteEnvironment(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete environment: %w", err)
		}

		fmt.Printf("Deleted environment %s\n", args[0])
		return nil
	},
}

func printEnvironment(env *platform.Environment) {
	fmt.Printf("Name:        %s\n", env.Name)
	fmt.Printf("ID:          %s\n", env.ID)
	fmt.Printf("Status:      %s\n", env.Status)
	if env.Description != "" {
		fmt.Printf("Description: %s\n", env.Description)
	}
	fmt.Printf("Org:         %s\n", env.OrganizationID)
	fmt.Printf("Created:     %s\n", env.CreatedAt)
	fmt.Printf("Updated:     %s\n", env.UpdatedAt)
}

func init() {
	envCmd.AddCommand(envListCmd)
	envCmd.AddCommand(envGetCmd)
	envCmd.AddCommand(envCreateCmd)
	envCmd.AddCommand(envUpdateCmd)
	envCmd.AddCommand(envDeleteCmd)

	envCreateCmd.Flags().String("name", "", "Environment name (required)")
	envCreateCmd.Flags().String("description", "", "Environment description")
	envUpdateCmd.Flags().String("name", "", "New name")
	envUpdateCmd.Flags().String("description", "", "New description")

	rootCmd.AddCommand(envCmd)
}
