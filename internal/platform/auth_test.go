package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email != "a@b.com" || req.Password != "Secret1!" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Message: "invalid email or password"})
			return
		}

		json.NewEncoder(w).Encode(LoginResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			TokenType:    "bearer",
			ExpiresIn:    900,
			User: User{
				ID:       "user-1",
				Email:    "a@b.com",
				FullName: "Ada Byron",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Login(context.Background(), "a@b.com", "Secret1!")
	require.NoError(t, err)
	assert.Equal(t, "access-1", resp.AccessToken)
	assert.Equal(t, "refresh-1", resp.RefreshToken)
	assert.Equal(t, "a@b.com", resp.User.Email)

	// Login itself does not register the token; the session manager does.
	assert.Empty(t, client.Token())

	_, err = client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.EqualError(t, err, "invalid email or password")
}

func TestRegisterReturnsNoTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/register", r.URL.Path)

		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "new@b.com", req.Email)
		assert.Equal(t, "Grace Hopper", req.FullName)

		json.NewEncoder(w).Encode(RegisterResponse{
			UserID:  "user-2",
			Email:   "new@b.com",
			Message: "registration successful",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Register(context.Background(), RegisterRequest{
		Email:           "new@b.com",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
		FullName:        "Grace Hopper",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-2", resp.UserID)
	assert.Empty(t, client.Token())
}

func TestRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/refresh", r.URL.Path)

		var req RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.RefreshToken != "refresh-1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Message: "refresh token expired"})
			return
		}

		json.NewEncoder(w).Encode(RefreshResponse{
			AccessToken: "access-2",
			TokenType:   "bearer",
			ExpiresIn:   900,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.RefreshToken(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", resp.AccessToken)

	_, err = client.RefreshToken(context.Background(), "stale")
	require.Error(t, err)
	assert.EqualError(t, err, "refresh token expired")
}

func TestGetCurrentUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/me", r.URL.Path)
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(User{
			ID:       "user-1",
			Email:    "a@b.com",
			FullName: "Ada Byron",
			IsAdmin:  true,
			Organizations: []OrganizationMember{
				{ID: "org-1", Name: "Analytical Engines", Role: "owner"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("access-1")

	user, err := client.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.True(t, user.IsAdmin)
	require.Len(t, user.Organizations, 1)
	assert.Equal(t, "owner", user.Organizations[0].Role)
}
