package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Agent represents a deployed MAAS agent
type Agent struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	EnvironmentID string         `json:"environment_id"`
	Config        map[string]any `json:"config,omitempty"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

// Agent type values
const (
	AgentTypeCodeGenerator     = "code_generator"
	AgentTypeResearch          = "research"
	AgentTypeTesting           = "testing"
	AgentTypeGitHubIntegration = "github_integration"
	AgentTypeBasicTools        = "basic_tools"
)

// Agent status values
const (
	AgentStatusActive    = "active"
	AgentStatusInactive  = "inactive"
	AgentStatusDeploying = "deploying"
	AgentStatusError     = "error"
)

// DeployAgentRequest represents an agent deployment request
type DeployAgentRequest struct {
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	EnvironmentID string         `json:"environment_id"`
	Config        map[string]any `json:"config,omitempty"`
}

// UpdateAgentRequest represents an agent update request
type UpdateAgentRequest struct {
	Name   string         `json:"name,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// ListAgents retrieves agents, optionally filtered by environment.
func (c *Client) ListAgents(ctx context.Context, environmentID string) ([]Agent, error) {
	var query url.Values
	if environmentID != "" {
		query = url.Values{"environment_id": []string{environmentID}}
	}

	var agents []Agent
	if err := c.do(ctx, http.MethodGet, "/agents", query, nil, &agents, true); err != nil {
		return nil, err
	}
	return agents, nil
}

// GetAgent retrieves a single agent by ID.
func (c *Client) GetAgent(ctx context.Context, id string) (*Agent, error) {
	var agent Agent
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/agents/%s", id), nil, nil, &agent, true); err != nil {
		return nil, err
	}
	return &agent, nil
}

// DeployAgent deploys a new agent into an environment.
func (c *Client) DeployAgent(ctx context.Context, req DeployAgentRequest) (*Agent, error) {
	var agent Agent
	if err := c.do(ctx, http.MethodPost, "/agents", nil, req, &agent, true); err != nil {
		return nil, err
	}
	return &agent, nil
}

// UpdateAgent updates an existing agent.
func (c *Client) UpdateAgent(ctx context.Context, id string, req UpdateAgentRequest) (*Agent, error) {
	var agent Agent
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/agents/%s", id), nil, req, &agent, true); err != nil {
		return nil, err
	}
	return &agent, nil
}

// DeleteAgent deletes an agent.
func (c *Client) DeleteAgent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/agents/%s", id), nil, nil, nil, true)
}

// StartAgent starts a stopped agent.
func (c *Client) StartAgent(ctx context.Context, id string) (*Agent, error) {
	var agent Agent
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/agents/%s/start", id), nil, nil, &agent, true); err != nil {
		return nil, err
	}
	return &agent, nil
}

// StopAgent stops a running agent.
func (c *Client) StopAgent(ctx context.Context, id string) (*Agent, error) {
	var agent Agent
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/agents/%s/stop", id), nil, nil, &agent, true); err != nil {
		return nil, err
	}
	return &agent, nil
}
