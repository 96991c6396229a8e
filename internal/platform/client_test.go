package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReauthorizer is a canned Reauthorizer for interceptor tests.
type stubReauthorizer struct {
	token string
	ok    bool
	calls atomic.Int32
}

func (s *stubReauthorizer) Reauthorize(ctx context.Context) (string, bool) {
	s.calls.Add(1)
	return s.token, s.ok
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]Environment{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("token-abc")

	_, err := client.ListEnvironments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClientClearToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(&HealthStatus{Status: "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("token-abc")
	client.ClearToken()

	_, err := client.GetHealth(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "message field",
			status:  http.StatusBadRequest,
			body:    `{"message": "name already taken"}`,
			wantMsg: "name already taken",
		},
		{
			name:    "error field",
			status:  http.StatusConflict,
			body:    `{"error": "duplicate environment"}`,
			wantMsg: "duplicate environment",
		},
		{
			name:    "detail field",
			status:  http.StatusUnprocessableEntity,
			body:    `{"detail": "invalid parameters"}`,
			wantMsg: "invalid parameters",
		},
		{
			name:    "non-json body",
			status:  http.StatusInternalServerError,
			body:    "boom",
			wantMsg: "request failed with status 500: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.ListEnvironments(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClientRetriesOnceAfterReauthorize(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Message: "token expired"})
			return
		}
		json.NewEncoder(w).Encode([]Environment{{ID: "env-1", Name: "prod"}})
	}))
	defer server.Close()

	reauth := &stubReauthorizer{token: "fresh-token", ok: true}
	client := NewClient(server.URL)
	client.SetToken("stale-token")
	client.SetReauthorizer(reauth)

	envs, err := client.ListEnvironments(context.Background())
	require.NoError(t, err)
	require.Len(t, envs, 1)
	assert.Equal(t, "env-1", envs[0].ID)
	assert.Equal(t, int32(2), requests.Load())
	assert.Equal(t, int32(1), reauth.calls.Load())
}

func TestClientSurfacesOriginalErrorWhenRecoveryFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "token expired"})
	}))
	defer server.Close()

	reauth := &stubReauthorizer{ok: false}
	client := NewClient(server.URL)
	client.SetToken("stale-token")
	client.SetReauthorizer(reauth)

	_, err := client.ListEnvironments(context.Background())
	require.Error(t, err)

	// The caller sees the original 401, not a wrapped refresh error.
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsAuthError())
	assert.Equal(t, "token expired", apiErr.Message)
	assert.Equal(t, int32(1), reauth.calls.Load())
}

func TestClientNeverRetriesTwice(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "still rejected"})
	}))
	defer server.Close()

	reauth := &stubReauthorizer{token: "supposedly-fresh", ok: true}
	client := NewClient(server.URL)
	client.SetToken("stale-token")
	client.SetReauthorizer(reauth)

	_, err := client.ListEnvironments(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsAuthError())

	// One original attempt plus exactly one retry.
	assert.Equal(t, int32(2), requests.Load())
	assert.Equal(t, int32(1), reauth.calls.Load())
}

func TestAuthEndpointsBypassRecovery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "invalid credentials"})
	}))
	defer server.Close()

	reauth := &stubReauthorizer{token: "whatever", ok: true}
	client := NewClient(server.URL)
	client.SetReauthorizer(reauth)

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, int32(0), reauth.calls.Load(), "login must never trigger token recovery")

	_, err = client.RefreshToken(context.Background(), "dead-refresh-token")
	require.Error(t, err)
	assert.Equal(t, int32(0), reauth.calls.Load(), "refresh must never trigger token recovery")
}

func TestClientQueryParameters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]Agent{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListAgents(context.Background(), "env-42")
	require.NoError(t, err)
	assert.Equal(t, "environment_id=env-42", gotQuery)
}

func TestClientRequestBodyReplayedOnRetry(t *testing.T) {
	var bodies []CreateTaskRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateTaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		bodies = append(bodies, req)

		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(&Task{ID: "task-1", Status: TaskStatusPending})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("stale-token")
	client.SetReauthorizer(&stubReauthorizer{token: "fresh-token", ok: true})

	task, err := client.CreateTask(context.Background(), CreateTaskRequest{
		AgentID:    "agent-1",
		Parameters: map[string]any{"prompt": "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", task.ID)

	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0].AgentID, bodies[1].AgentID, "retried request must carry the original body")
	assert.Equal(t, bodies[0].Parameters, bodies[1].Parameters)
}
