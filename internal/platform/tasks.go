package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Task represents a unit of work executed by an agent
type Task struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	AgentID       string         `json:"agent_id"`
	EnvironmentID string         `json:"environment_id"`
	Status        string         `json:"status"`
	Parameters    map[string]any `json:"parameters"`
	Result        map[string]any `json:"result,omitempty"`
	Error         string         `json:"error,omitempty"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
	StartedAt     string         `json:"started_at,omitempty"`
	CompletedAt   string         `json:"completed_at,omitempty"`
}

// Task status values
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
	TaskStatusCancelled = "cancelled"
)

// CreateTaskRequest represents a task creation request
type CreateTaskRequest struct {
	AgentID    string         `json:"agent_id"`
	Parameters map[string]any `json:"parameters"`
}

// TaskFilter narrows task listings
type TaskFilter struct {
	EnvironmentID string
	AgentID       string
}

// ListTasks retrieves tasks matching the filter.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	query := url.Values{}
	if filter.EnvironmentID != "" {
		query.Set("environment_id", filter.EnvironmentID)
	}
	if filter.AgentID != "" {
		query.Set("agent_id", filter.AgentID)
	}
	if len(query) == 0 {
		query = nil
	}

	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/tasks", query, nil, &tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask retrieves a single task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%s", id), nil, nil, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask submits a new task to an agent.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, req, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// CancelTask cancels a pending or running task.
func (c *Client) CancelTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%s/cancel", id), nil, nil, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}
