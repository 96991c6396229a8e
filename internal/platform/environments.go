package platform

import (
	"context"
	"fmt"
	"net/http"
)

// Environment represents a MAAS environment
type Environment struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Status         string         `json:"status"`
	OrganizationID string         `json:"organization_id"`
	Config         map[string]any `json:"config,omitempty"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

// Environment status values
const (
	EnvironmentStatusActive   = "active"
	EnvironmentStatusInactive = "inactive"
	EnvironmentStatusPending  = "pending"
)

// CreateEnvironmentRequest represents an environment creation request
type CreateEnvironmentRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
}

// UpdateEnvironmentRequest represents an environment update request
type UpdateEnvironmentRequest struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
}

// ListEnvironments retrieves all environments visible to the current user.
func (c *Client) ListEnvironments(ctx context.Context) ([]Environment, error) {
	var envs []Environment
	if err := c.do(ctx, http.MethodGet, "/environments", nil, nil, &envs, true); err != nil {
		return nil, err
	}
	return envs, nil
}

// GetEnvironment retrieves a single environment by ID.
func (c *Client) GetEnvironment(ctx context.Context, id string) (*Environment, error) {
	var env Environment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/environments/%s", id), nil, nil, &env, true); err != nil {
		return nil, err
	}
	return &env, nil
}

// CreateEnvironment creates a new environment.
func (c *Client) CreateEnvironment(ctx context.Context, req CreateEnvironmentRequest) (*Environment, error) {
	var env Environment
	if err := c.do(ctx, http.MethodPost, "/environments", nil, req, &env, true); err != nil {
		return nil, err
	}
	return &env, nil
}

// UpdateEnvironment updates an existing environment.
func (c *Client) UpdateEnvironment(ctx context.Context, id string, req UpdateEnvironmentRequest) (*Environment, error) {
	var env Environment
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/environments/%s", id), nil, req, &env, true); err != nil {
		return nil, err
	}
	return &env, nil
}

// DeleteEnvironment deletes an environment.
func (c *Client) DeleteEnvironment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/environments/%s", id), nil, nil, nil, true)
}
