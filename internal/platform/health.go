package platform

import (
	"context"
	"net/http"
	"net/url"
)

// HealthStatus represents the platform health summary
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Version   string `json:"version"`
}

// SystemMetrics represents platform-wide resource metrics
type SystemMetrics struct {
	CPUUsage          float64 `json:"cpu_usage"`
	MemoryUsage       float64 `json:"memory_usage"`
	DiskUsage         float64 `json:"disk_usage"`
	ActiveAgents      int     `json:"active_agents"`
	RunningTasks      int     `json:"running_tasks"`
	TotalEnvironments int     `json:"total_environments"`
}

// AgentMetrics represents per-agent execution metrics
type AgentMetrics struct {
	AgentID              string  `json:"agent_id"`
	AgentName            string  `json:"agent_name"`
	TotalTasks           int     `json:"total_tasks"`
	SuccessfulTasks      int     `json:"successful_tasks"`
	FailedTasks          int     `json:"failed_tasks"`
	AverageExecutionTime float64 `json:"average_execution_time"`
	LastActivity         string  `json:"last_activity"`
}

// GetHealth retrieves the platform health summary.
// Health endpoints are unauthenticated, so no auth recovery applies.
func (c *Client) GetHealth(ctx context.Context) (*HealthStatus, error) {
	var health HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &health, false); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetSystemMetrics retrieves platform-wide resource metrics.
func (c *Client) GetSystemMetrics(ctx context.Context) (*SystemMetrics, error) {
	var metrics SystemMetrics
	if err := c.do(ctx, http.MethodGet, "/monitoring/system", nil, nil, &metrics, true); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// GetAgentMetrics retrieves per-agent execution metrics, optionally filtered
// by environment.
func (c *Client) GetAgentMetrics(ctx context.Context, environmentID string) ([]AgentMetrics, error) {
	var query url.Values
	if environmentID != "" {
		query = url.Values{"environment_id": []string{environmentID}}
	}

	var metrics []AgentMetrics
	if err := c.do(ctx, http.MethodGet, "/monitoring/agents", query, nil, &metrics, true); err != nil {
		return nil, err
	}
	return metrics, nil
}
