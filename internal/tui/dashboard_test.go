package tui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KuzscoTech/maas-management/internal/platform"
	"github.com/KuzscoTech/maas-management/internal/session"
)

// newTestSession builds a manager backed by a minimal fake platform.
func newTestSession(t *testing.T) (*session.Manager, *platform.Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(platform.LoginResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			TokenType:    "bearer",
			ExpiresIn:    900,
			User:         platform.User{ID: "user-1", Email: "a@b.com"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := platform.NewClient(server.URL)
	mgr := session.NewManager(client, session.NewMemoryStore())
	return mgr, client
}

// bootSession runs the no-token bootstrap so the UI leaves the loading view.
func bootSession(t *testing.T, mgr *session.Manager) {
	t.Helper()
	mgr.InitializeAuth(context.Background())
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// TestNewModel tests model initialization
func TestNewModel(t *testing.T) {
	mgr, client := newTestSession(t)
	model := NewModel(mgr, client)

	if model.currentView != ViewOverview {
		t.Errorf("Expected ViewOverview, got %v", model.currentView)
	}

	if !model.loading {
		t.Error("Expected loading to be true before the first data load")
	}

	if model.quitting {
		t.Error("Expected quitting to be false by default")
	}
}

// TestBootstrappingView tests the pre-bootstrap loading screen
func TestBootstrappingView(t *testing.T) {
	mgr, client := newTestSession(t)
	model := NewModel(mgr, client)

	view := model.View()
	if !strings.Contains(view, "Restoring session") {
		t.Errorf("Expected bootstrap loading view, got: %s", view)
	}
	if strings.Contains(view, "Not logged in") {
		t.Error("Bootstrap view must not flash the logged-out screen")
	}
}

// TestLoggedOutView tests the anonymous screen after bootstrap
func TestLoggedOutView(t *testing.T) {
	mgr, client := newTestSession(t)
	bootSession(t, mgr)
	model := NewModel(mgr, client)

	view := model.View()
	if !strings.Contains(view, "Not logged in") {
		t.Errorf("Expected logged-out view, got: %s", view)
	}
	if !strings.Contains(view, "maas auth login") {
		t.Error("Logged-out view should point at the login command")
	}
}

// TestOverviewView tests the authenticated overview
func TestOverviewView(t *testing.T) {
	mgr, client := newTestSession(t)
	bootSession(t, mgr)
	if err := mgr.Login(context.Background(), "a@b.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	model := NewModel(mgr, client)
	updated, _ := model.Update(dataLoadedMsg{
		environments: []platform.Environment{{ID: "env-1", Name: "prod", Status: platform.EnvironmentStatusActive}},
		agents: []platform.Agent{
			{ID: "agent-1", Name: "coder", Status: platform.AgentStatusActive},
			{ID: "agent-2", Name: "tester", Status: platform.AgentStatusInactive},
		},
		tasks:  []platform.Task{{ID: "task-1", Status: platform.TaskStatusRunning}},
		health: &platform.HealthStatus{Status: "healthy", Service: "maas", Version: "1.0.0"},
	})
	m := updated.(Model)

	view := m.View()
	for _, want := range []string{"a@b.com", "healthy", "Environments: 1", "Agents:       2", "Tasks:        1"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected overview to contain %q, got:\n%s", want, view)
		}
	}
}

// TestDataLoadedMessage tests data message handling
func TestDataLoadedMessage(t *testing.T) {
	mgr, client := newTestSession(t)
	model := NewModel(mgr, client)

	updated, _ := model.Update(dataLoadedMsg{
		environments: []platform.Environment{{ID: "env-1", Name: "prod"}},
	})
	m := updated.(Model)

	if m.loading {
		t.Error("Expected loading to clear after data arrives")
	}
	if len(m.environments) != 1 {
		t.Errorf("Expected 1 environment, got %d", len(m.environments))
	}
	if m.lastError != "" {
		t.Errorf("Expected no error, got %q", m.lastError)
	}
	if m.lastLoaded.IsZero() {
		t.Error("Expected lastLoaded to be stamped")
	}
}

// TestDataLoadError tests failed load handling
func TestDataLoadError(t *testing.T) {
	mgr, client := newTestSession(t)
	model := NewModel(mgr, client)
	model.environments = []platform.Environment{{ID: "env-1"}}

	updated, _ := model.Update(dataLoadedMsg{err: errors.New("connection refused")})
	m := updated.(Model)

	if m.lastError != "connection refused" {
		t.Errorf("Expected error recorded, got %q", m.lastError)
	}
	if len(m.environments) != 1 {
		t.Error("A failed reload must keep the previous data visible")
	}
}

// TestViewSwitching tests hotkey navigation
func TestViewSwitching(t *testing.T) {
	mgr, client := newTestSession(t)
	model := NewModel(mgr, client)

	tests := []struct {
		key  rune
		want ViewType
	}{
		{'2', ViewEnvironments},
		{'3', ViewAgents},
		{'4', ViewTasks},
		{'1', ViewOverview},
	}

	var m tea.Model = model
	for _, tt := range tests {
		m, _ = m.Update(keyPress(tt.key))
		if got := m.(Model).currentView; got != tt.want {
			t.Errorf("Key %q: expected view %v, got %v", tt.key, tt.want, got)
		}
	}
}

// TestHelpToggle tests the help hotkey
func TestHelpToggle(t *testing.T) {
	mgr, client := newTestSession(t)
	model := NewModel(mgr, client)

	updated, _ := model.Update(keyPress('?'))
	m := updated.(Model)
	if m.currentView != ViewHelp {
		t.Errorf("Expected ViewHelp, got %v", m.currentView)
	}

	updated, _ = m.Update(keyPress('?'))
	m = updated.(Model)
	if m.currentView != ViewOverview {
		t.Errorf("Expected ViewOverview after toggling help off, got %v", m.currentView)
	}
}

// TestQuitKey tests quitting
func TestQuitKey(t *testing.T) {
	mgr, client := newTestSession(t)
	model := NewModel(mgr, client)

	updated, cmd := model.Update(keyPress('q'))
	m := updated.(Model)

	if !m.quitting {
		t.Error("Expected quitting to be true after q")
	}
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
}

// TestWindowSize tests resize handling
func TestWindowSize(t *testing.T) {
	mgr, client := newTestSession(t)
	model := NewModel(mgr, client)

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m := updated.(Model)

	if m.width != 120 || m.height != 40 {
		t.Errorf("Expected 120x40, got %dx%d", m.width, m.height)
	}
	if !m.ready {
		t.Error("Expected ready after first WindowSizeMsg")
	}
}

// TestTableRebuild tests list view contents
func TestTableRebuild(t *testing.T) {
	mgr, client := newTestSession(t)
	bootSession(t, mgr)
	if err := mgr.Login(context.Background(), "a@b.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	model := NewModel(mgr, client)
	updated, _ := model.Update(dataLoadedMsg{
		environments: []platform.Environment{{ID: "env-1", Name: "prod", Status: "active"}},
	})
	m := updated.(Model)

	updated, _ = m.Update(keyPress('2'))
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "prod") {
		t.Errorf("Expected environments table to list 'prod', got:\n%s", view)
	}
}
