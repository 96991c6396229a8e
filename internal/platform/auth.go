package platform

import (
	"context"
	"net/http"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	FullName         string `json:"full_name"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// RegisterResponse represents a registration response.
// Registration does not authenticate: no tokens are issued.
type RegisterResponse struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id,omitempty"`
	Message        string `json:"message"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse represents a token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// User represents a platform user
type User struct {
	ID            string               `json:"id"`
	Email         string               `json:"email"`
	FullName      string               `json:"full_name"`
	IsAdmin       bool                 `json:"is_admin"`
	Organizations []OrganizationMember `json:"organizations"`
}

// OrganizationMember represents a user's membership in an organization
type OrganizationMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Login authenticates with the platform and returns tokens.
// The caller is responsible for registering the access token with SetToken.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := LoginRequest{
		Email:    email,
		Password: password,
	}

	var loginResp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &loginResp, false); err != nil {
		return nil, err
	}

	return &loginResp, nil
}

// Register creates a new user account. It does not authenticate the user;
// the caller is expected to follow up with Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var regResp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &regResp, false); err != nil {
		return nil, err
	}

	return &regResp, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	req := RefreshRequest{RefreshToken: refreshToken}

	var refreshResp RefreshResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, req, &refreshResp, false); err != nil {
		return nil, err
	}

	return &refreshResp, nil
}

// Logout notifies the platform that the session is ending.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil, false)
}

// GetCurrentUser retrieves the currently authenticated user's profile.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user, true); err != nil {
		return nil, err
	}

	return &user, nil
}
