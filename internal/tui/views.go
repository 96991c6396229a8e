package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard (required by Bubble Tea)
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.mgr.Bootstrapped() {
		return m.renderBootstrapping()
	}

	if !m.mgr.IsAuthenticated() {
		return m.renderLoggedOut()
	}

	switch m.currentView {
	case ViewOverview:
		return m.renderOverview()
	case ViewEnvironments:
		return m.renderTableView("Environments", len(m.environments))
	case ViewAgents:
		return m.renderTableView("Agents", len(m.agents))
	case ViewTasks:
		return m.renderTableView("Tasks", len(m.tasks))
	case ViewHelp:
		return m.renderHelp()
	default:
		return "Unknown view"
	}
}

// renderBootstrapping covers the window between process start and the
// persisted session being validated. Rendering the logged-out screen here
// would flash "not logged in" at users with a perfectly valid session.
func (m Model) renderBootstrapping() string {
	return m.spinner.View() + " " + m.styles.Muted.Render("Restoring session...")
}

// renderLoggedOut tells the user how to get in
func (m Model) renderLoggedOut() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("MAAS Management Console"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Warning.Render("Not logged in."))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("Run ") +
		m.styles.Key.Render("maas auth login") +
		m.styles.Muted.Render(" to start a session."))
	b.WriteString("\n")

	return b.String()
}

// renderOverview renders platform health, metrics, and resource counts
func (m Model) renderOverview() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("MAAS Management Console"))
	b.WriteString("\n")

	if user := m.mgr.CurrentUser(); user != nil {
		b.WriteString(m.styles.Muted.Render("Logged in as ") + m.styles.Subtitle.Render(user.Email))
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(m.spinner.View() + " " + m.styles.Muted.Render("Loading platform data..."))
		b.WriteString("\n\n")
		b.WriteString(m.renderHelpLine())
		return b.String()
	}

	b.WriteString(m.renderHealthBox())
	b.WriteString("\n\n")
	b.WriteString(m.renderCountsBox())
	b.WriteString("\n\n")

	if m.lastError != "" {
		errorBox := m.styles.Border.
			BorderForeground(lipgloss.Color("196")). // Red border
			Render(m.styles.Error.Render("Error: ") + m.lastError)
		b.WriteString(errorBox)
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderHelpLine())
	return b.String()
}

// renderHealthBox renders the platform health summary
func (m Model) renderHealthBox() string {
	var b strings.Builder

	if m.health == nil {
		b.WriteString(m.styles.Muted.Render("Health: unavailable"))
		return m.styles.Border.Render(b.String())
	}

	var statusStyle lipgloss.Style
	switch m.health.Status {
	case "healthy", "ok":
		statusStyle = m.styles.Success
	case "degraded":
		statusStyle = m.styles.Warning
	default:
		statusStyle = m.styles.Error
	}

	b.WriteString(m.styles.Status.Render("Platform"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Status:  %s\n", statusStyle.Render(m.health.Status)))
	b.WriteString(fmt.Sprintf("Service: %s\n", m.styles.Subtitle.Render(m.health.Service)))
	b.WriteString(fmt.Sprintf("Version: %s", m.styles.Subtitle.Render(m.health.Version)))

	if m.metrics != nil {
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("CPU: %s   Memory: %s   Disk: %s",
			m.renderUsage(m.metrics.CPUUsage),
			m.renderUsage(m.metrics.MemoryUsage),
			m.renderUsage(m.metrics.DiskUsage)))
	}

	return m.styles.Border.Render(b.String())
}

func (m Model) renderUsage(pct float64) string {
	text := fmt.Sprintf("%.0f%%", pct)
	switch {
	case pct >= 90:
		return m.styles.Error.Render(text)
	case pct >= 75:
		return m.styles.Warning.Render(text)
	default:
		return m.styles.Success.Render(text)
	}
}

// renderCountsBox renders resource counts with freshness
func (m Model) renderCountsBox() string {
	var b strings.Builder

	b.WriteString(m.styles.Status.Render("Resources"))
	b.WriteString("\n\n")

	counts := []string{
		fmt.Sprintf("Environments: %s", m.styles.Subtitle.Render(fmt.Sprintf("%d", len(m.environments)))),
		fmt.Sprintf("Agents:       %s  (%s active)", m.styles.Subtitle.Render(fmt.Sprintf("%d", len(m.agents))),
			m.styles.Success.Render(fmt.Sprintf("%d", m.countAgents("active")))),
		fmt.Sprintf("Tasks:        %s  (%s running)", m.styles.Subtitle.Render(fmt.Sprintf("%d", len(m.tasks))),
			m.styles.Status.Render(fmt.Sprintf("%d", m.countTasks("running")))),
	}
	b.WriteString(strings.Join(counts, "\n"))

	if !m.lastLoaded.IsZero() {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Updated " + m.lastLoaded.Format(time.Kitchen)))
	}

	return m.styles.Border.Render(b.String())
}

func (m Model) countAgents(status string) int {
	n := 0
	for _, a := range m.agents {
		if a.Status == status {
			n++
		}
	}
	return n
}

func (m Model) countTasks(status string) int {
	n := 0
	for _, t := range m.tasks {
		if t.Status == status {
			n++
		}
	}
	return n
}

// renderTableView renders one of the list views
func (m Model) renderTableView(title string, count int) string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " " + m.styles.Muted.Render("Loading..."))
		b.WriteString("\n\n")
		b.WriteString(m.renderHelpLine())
		return b.String()
	}

	if count == 0 {
		b.WriteString(m.styles.Muted.Render("Nothing here yet"))
		b.WriteString("\n\n")
		b.WriteString(m.renderHelpLine())
		return b.String()
	}

	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderHelpLine())
	return b.String()
}

// renderHelp renders the help view
func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	hotkeys := []struct {
		key  string
		desc string
	}{
		{"1", "Overview"},
		{"2", "Environments"},
		{"3", "Agents"},
		{"4", "Tasks"},
		{"r", "Reload data"},
		{"?", "Toggle help"},
		{"q / Ctrl+C", "Quit"},
		{"Esc", "Back to overview"},
	}

	for _, hk := range hotkeys {
		keyText := m.styles.Key.Render(fmt.Sprintf("%-12s", hk.key))
		descText := m.styles.KeyDesc.Render(hk.desc)
		b.WriteString(keyText + " " + descText)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Press ? or Esc to return"))

	return b.String()
}

// renderHelpLine renders the hotkey line at the bottom
func (m Model) renderHelpLine() string {
	helpItems := []string{
		m.styles.Key.Render("1-4") + " views",
		m.styles.Key.Render("r") + " reload",
		m.styles.Key.Render("?") + " help",
		m.styles.Key.Render("q") + " quit",
	}

	return m.styles.Help.Render(strings.Join(helpItems, " • "))
}
