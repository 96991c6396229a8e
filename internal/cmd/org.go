package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var orgCmd = &cobra.Command{
	Use:     "org",
	Aliases: []string{"organization", "organizations"},
	Short:   "Show organizations",
	Long: `Show the organizations your account belongs to.

Examples:
  maas org list
  maas org get <organization-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var orgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		orgs, err := a.client.ListOrganizations(cmd.Context())
		if err != nil {
			return fmt.Errorf("list organizations: %w", err)
		}

		if len(orgs) == 0 {
			fmt.Println("No organizations.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tID\tCREATED")
		for _, org := range orgs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", org.Name, org.ID, org.CreatedAt)
		}
		return w.Flush()
	},
}

var orgGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		org, err := a.client.GetOrganization(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get organization: %w", err)
		}

		fmt.Printf("Name:    %s\n", org.Name)
		fmt.Printf("ID:      %s\n", org.ID)
		fmt.Printf("Created: %s\n", org.CreatedAt)
		return nil
	},
}

func init() {
	orgCmd.AddCommand(orgListCmd)
	orgCmd.AddCommand(orgGetCmd)

	rootCmd.AddCommand(orgCmd)
}
