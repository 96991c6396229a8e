package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/KuzscoTech/maas-management/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long: `Open the interactive terminal dashboard.

The dashboard shows platform health, environments, agents, and tasks, and
reloads automatically. While it runs, the access token is refreshed in the
background so the session never lapses.

Examples:
  maas dashboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		model := tui.NewModel(a.mgr, a.client)
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
