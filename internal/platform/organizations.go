package platform

import (
	"context"
	"fmt"
	"net/http"
)

// Organization represents a MAAS organization
type Organization struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListOrganizations retrieves the organizations visible to the current user.
func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.do(ctx, http.MethodGet, "/organizations", nil, nil, &orgs, true); err != nil {
		return nil, err
	}
	return orgs, nil
}

// GetOrganization retrieves a single organization by ID.
func (c *Client) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	var org Organization
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/organizations/%s", id), nil, nil, &org, true); err != nil {
		return nil, err
	}
	return &org, nil
}
