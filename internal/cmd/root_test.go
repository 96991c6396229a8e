package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func findCommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("command %q not registered under %q", name, parent.Name())
	return nil
}

func TestCommandTree(t *testing.T) {
	for _, name := range []string{"auth", "env", "agent", "task", "org", "status", "dashboard", "version"} {
		findCommand(t, rootCmd, name)
	}

	auth := findCommand(t, rootCmd, "auth")
	for _, name := range []string{"login", "register", "logout", "status"} {
		findCommand(t, auth, name)
	}

	env := findCommand(t, rootCmd, "env")
	for _, name := range []string{"list", "get", "create", "update", "delete"} {
		findCommand(t, env, name)
	}

	agent := findCommand(t, rootCmd, "agent")
	for _, name := range []string{"list", "get", "deploy", "start", "stop", "delete"} {
		findCommand(t, agent, name)
	}

	task := findCommand(t, rootCmd, "task")
	for _, name := range []string{"list", "get", "create", "cancel"} {
		findCommand(t, task, name)
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "api-url", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag %q not registered", name)
		}
	}
}

func TestRequiredFlagChecks(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
		args []string
	}{
		{"env create without name", envCreateCmd, nil},
		{"agent deploy without flags", agentDeployCmd, nil},
		{"task create without agent", taskCreateCmd, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.RunE(tt.cmd, tt.args); err == nil {
				t.Error("expected a missing-flag error")
			}
		})
	}
}
