package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KuzscoTech/maas-management/internal/platform"
	"github.com/KuzscoTech/maas-management/internal/session"
)

// ViewType represents the current view being displayed
type ViewType int

// View type constants
const (
	// ViewOverview shows platform health and counts
	ViewOverview ViewType = iota
	// ViewEnvironments lists environments
	ViewEnvironments
	// ViewAgents lists agents
	ViewAgents
	// ViewTasks lists tasks
	ViewTasks
	// ViewHelp is the help screen
	ViewHelp
)

// refreshEvery is how often the dashboard reloads platform data.
const refreshEvery = 10 * time.Second

// Model represents the dashboard TUI state
type Model struct {
	mgr    *session.Manager
	client *platform.Client

	// Platform data
	environments []platform.Environment
	agents       []platform.Agent
	tasks        []platform.Task
	health       *platform.HealthStatus
	metrics      *platform.SystemMetrics

	// UI state
	currentView ViewType
	spinner     spinner.Model
	table       table.Model
	loading     bool
	width       int
	height      int
	ready       bool
	quitting    bool
	lastError   string
	lastLoaded  time.Time

	styles Styles
	keys   keyMap
}

// keyMap defines the keyboard shortcuts
type keyMap struct {
	Overview     key.Binding
	Environments key.Binding
	Agents       key.Binding
	Tasks        key.Binding
	Reload       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	Overview:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
	Environments: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "environments")),
	Agents:       key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "agents")),
	Tasks:        key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "tasks")),
	Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Styles contains lipgloss styles for the dashboard
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Help     lipgloss.Style
	Key      lipgloss.Style
	KeyDesc  lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")). // Purple
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Status: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")), // Yellow
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")). // Purple
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			MarginTop(1),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		KeyDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
	}
}

// NewModel creates a dashboard model for an already-bootstrapped session.
func NewModel(mgr *session.Manager, client *platform.Client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	return Model{
		mgr:         mgr,
		client:      client,
		currentView: ViewOverview,
		spinner:     sp,
		loading:     true,
		styles:      DefaultStyles(),
		keys:        keys,
	}
}

// Messages produced by background commands

// dataLoadedMsg carries one round of platform data
type dataLoadedMsg struct {
	environments []platform.Environment
	agents       []platform.Agent
	tasks        []platform.Task
	health       *platform.HealthStatus
	metrics      *platform.SystemMetrics
	err          error
}

// reloadTickMsg triggers a periodic data reload
type reloadTickMsg time.Time

// Init starts the spinner, the first data load, and the reload timer
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadData(), m.scheduleReload())
}

// loadData fetches everything the dashboard shows in one command
func (m Model) loadData() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), platform.DefaultTimeout)
		defer cancel()

		var msg dataLoadedMsg
		var err error

		if msg.environments, err = client.ListEnvironments(ctx); err != nil {
			msg.err = err
			return msg
		}
		if msg.agents, err = client.ListAgents(ctx, ""); err != nil {
			msg.err = err
			return msg
		}
		if msg.tasks, err = client.ListTasks(ctx, platform.TaskFilter{}); err != nil {
			msg.err = err
			return msg
		}
		// Health and metrics are nice-to-have; a failure there should not
		// blank the whole dashboard.
		msg.health, _ = client.GetHealth(ctx)
		msg.metrics, _ = client.GetSystemMetrics(ctx)
		return msg
	}
}

func (m Model) scheduleReload() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return reloadTickMsg(t)
	})
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.lastError = ""
		m.environments = msg.environments
		m.agents = msg.agents
		m.tasks = msg.tasks
		m.health = msg.health
		m.metrics = msg.metrics
		m.lastLoaded = time.Now()
		m.rebuildTable()
		return m, nil

	case reloadTickMsg:
		return m, tea.Batch(m.loadData(), m.scheduleReload())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Overview):
		m.currentView = ViewOverview

	case key.Matches(msg, m.keys.Environments):
		m.currentView = ViewEnvironments
		m.rebuildTable()

	case key.Matches(msg, m.keys.Agents):
		m.currentView = ViewAgents
		m.rebuildTable()

	case key.Matches(msg, m.keys.Tasks):
		m.currentView = ViewTasks
		m.rebuildTable()

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadData())

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = ViewOverview
		} else {
			m.currentView = ViewHelp
		}

	case msg.String() == "esc":
		m.currentView = ViewOverview

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

// rebuildTable replaces the table contents for the current view
func (m *Model) rebuildTable() {
	var columns []table.Column
	var rows []table.Row

	switch m.currentView {
	case ViewEnvironments:
		columns = []table.Column{
			{Title: "Name", Width: 24},
			{Title: "Status", Width: 12},
			{Title: "ID", Width: 36},
		}
		for _, env := range m.environments {
			rows = append(rows, table.Row{env.Name, env.Status, env.ID})
		}

	case ViewAgents:
		columns = []table.Column{
			{Title: "Name", Width: 24},
			{Title: "Type", Width: 18},
			{Title: "Status", Width: 12},
			{Title: "Environment", Width: 36},
		}
		for _, agent := range m.agents {
			rows = append(rows, table.Row{agent.Name, agent.Type, agent.Status, agent.EnvironmentID})
		}

	case ViewTasks:
		columns = []table.Column{
			{Title: "ID", Width: 36},
			{Title: "Type", Width: 18},
			{Title: "Status", Width: 12},
			{Title: "Agent", Width: 36},
		}
		for _, task := range m.tasks {
			rows = append(rows, table.Row{task.ID, task.Type, task.Status, task.AgentID})
		}

	default:
		return
	}

	height := len(rows)
	if height > 12 {
		height = 12
	}
	if height < 1 {
		height = 1
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).Foreground(lipgloss.Color("63"))
	ts.Selected = ts.Selected.Background(lipgloss.Color("63")).Foreground(lipgloss.Color("230"))
	t.SetStyles(ts)

	m.table = t
}
