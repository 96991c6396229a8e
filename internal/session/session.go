package session

import (
	"context"
	"errors"
	"sync"

	"github.com/KuzscoTech/maas-management/internal/log"
	"github.com/KuzscoTech/maas-management/internal/platform"
)

// State identifies where the session is in its lifecycle.
type State int

const (
	// StateAnonymous means no user is logged in.
	StateAnonymous State = iota
	// StateAuthenticating means a login request is in flight.
	StateAuthenticating
	// StateAuthenticated means the session holds a usable access token.
	StateAuthenticated
	// StateRefreshing means the access token is being exchanged.
	StateRefreshing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// Fallback error messages when the server provides none.
const (
	loginFailedMessage    = "Login failed"
	registerFailedMessage = "Registration failed"
)

// Manager owns the authenticated session: tokens, the current user, and the
// transitions between anonymous, authenticating, authenticated, and
// refreshing. It is constructed explicitly and injected wherever the session
// is needed; there is no package-level instance.
//
// Manager implements platform.Reauthorizer: requests that hit a 401 recover
// through exactly one shared refresh, coordinated by refreshCoordinator.
//
// The epoch counter distinguishes logical session generations. It advances on
// logout and on each new login, and every refresh records the epoch it
// started under; a refresh that completes after the session it belonged to
// ended is discarded instead of repopulating tokens.
type Manager struct {
	client *platform.Client
	store  Store
	logger *log.Logger

	mu            sync.Mutex
	state         State
	user          *platform.User
	accessToken   string
	refreshToken  string
	authenticated bool
	loading       bool
	lastError     string
	epoch         uint64
	bootstrapped  bool

	coord refreshCoordinator
	sched *Scheduler
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for session events.
func WithLogger(logger *log.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager bound to the given API client and
// store. The persisted snapshot, if any, is hydrated immediately; network
// validation of a hydrated token is deferred to InitializeAuth. The manager
// installs itself as the client's Reauthorizer.
func NewManager(client *platform.Client, store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		client: client,
		store:  store,
		logger: log.Default(),
		state:  StateAnonymous,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.hydrate()
	client.SetReauthorizer(m)
	return m
}

// hydrate restores persisted session state, if any.
func (m *Manager) hydrate() {
	snap, ok, err := m.store.Load()
	if err != nil {
		m.logger.Warn("failed to load persisted session, starting anonymous", "error", err)
		return
	}
	if !ok {
		return
	}

	// A persisted record claiming authentication without a token would
	// violate the session invariant; treat it as anonymous.
	if snap.IsAuthenticated && snap.AccessToken == "" {
		m.logger.Warn("discarding inconsistent persisted session")
		return
	}

	m.user = snap.User
	m.accessToken = snap.AccessToken
	m.refreshToken = snap.RefreshToken
	m.authenticated = snap.IsAuthenticated
	if m.authenticated {
		m.state = StateAuthenticated
	}
}

// AttachScheduler wires the proactive refresh scheduler to the session
// lifecycle: it is armed on login and refresh success and disarmed on logout.
func (m *Manager) AttachScheduler(s *Scheduler) {
	m.mu.Lock()
	m.sched = s
	m.mu.Unlock()
}

// persistLocked writes the durable slice of the session to the store.
// Persistence failures are logged, not propagated: the in-memory session
// stays authoritative for the rest of the process lifetime.
func (m *Manager) persistLocked() {
	snap := Snapshot{
		User:            m.user,
		AccessToken:     m.accessToken,
		RefreshToken:    m.refreshToken,
		IsAuthenticated: m.authenticated,
	}
	if err := m.store.Save(snap); err != nil {
		m.logger.Warn("failed to persist session", "error", err)
	}
}

// Login authenticates with the platform. On success the session becomes
// authenticated, tokens and user are stored and persisted, and the access
// token is registered with the API client. On failure the session stays
// anonymous, the server-provided message (or a generic fallback) is recorded,
// and the original error is returned so the caller can react.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	m.state = StateAuthenticating
	m.loading = true
	m.lastError = ""
	m.mu.Unlock()

	resp, err := m.client.Login(ctx, email, password)

	m.mu.Lock()
	m.loading = false
	if err != nil {
		m.state = StateAnonymous
		m.lastError = errorMessage(err, loginFailedMessage)
		m.mu.Unlock()
		return err
	}

	m.epoch++
	m.state = StateAuthenticated
	user := resp.User
	m.user = &user
	m.accessToken = resp.AccessToken
	m.refreshToken = resp.RefreshToken
	m.authenticated = true
	m.client.SetToken(resp.AccessToken)
	m.persistLocked()
	sched := m.sched
	m.mu.Unlock()

	m.logger.Info("logged in", "email", resp.User.Email)

	if sched != nil {
		sched.Arm()
	}
	return nil
}

// Register creates a new account. It never authenticates the user: the
// platform issues no tokens on registration, and the caller is expected to
// route to login afterwards. Failure semantics mirror Login.
func (m *Manager) Register(ctx context.Context, req platform.RegisterRequest) error {
	m.mu.Lock()
	m.loading = true
	m.lastError = ""
	m.mu.Unlock()

	_, err := m.client.Register(ctx, req)

	m.mu.Lock()
	m.loading = false
	if err != nil {
		m.lastError = errorMessage(err, registerFailedMessage)
	}
	m.mu.Unlock()

	return err
}

// Logout ends the session. The platform is notified best-effort; a failing
// logout call is swallowed because logout must always succeed locally. The
// session is reset to anonymous and the persisted record cleared. Logging
// out an anonymous session is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	hadToken := m.accessToken != ""
	m.mu.Unlock()

	if hadToken {
		if err := m.client.Logout(ctx); err != nil {
			m.logger.Debug("logout notification failed, ignoring", "error", err)
		}
	}

	m.mu.Lock()
	m.resetLocked()
	sched := m.sched
	m.mu.Unlock()

	if sched != nil {
		sched.Disarm()
	}
}

// resetLocked clears the session back to anonymous and advances the epoch so
// any in-flight refresh belonging to the previous session is discarded.
func (m *Manager) resetLocked() {
	m.epoch++
	m.state = StateAnonymous
	m.user = nil
	m.accessToken = ""
	m.refreshToken = ""
	m.authenticated = false
	m.loading = false
	m.lastError = ""

	m.client.ClearToken()
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear persisted session", "error", err)
	}
}

// RefreshAccessToken exchanges the refresh token for a new access token and
// reports success. Without a refresh token it returns false immediately, with
// no network I/O. Any failure of the exchange is fatal to the session: the
// manager logs out as a side effect and returns false. On success only the
// access token changes; refresh token and user are untouched.
func (m *Manager) RefreshAccessToken(ctx context.Context) bool {
	m.mu.Lock()
	if m.refreshToken == "" {
		m.mu.Unlock()
		return false
	}
	refreshToken := m.refreshToken
	epoch := m.epoch
	if m.state == StateAuthenticated {
		m.state = StateRefreshing
	}
	m.mu.Unlock()

	resp, err := m.client.RefreshToken(ctx, refreshToken)

	m.mu.Lock()
	if m.epoch != epoch {
		// The session this refresh belonged to is gone (logout or a new
		// login won the race). Discard the result either way.
		m.mu.Unlock()
		m.logger.Debug("discarding refresh result from a previous session epoch")
		return false
	}

	if err != nil {
		if m.state == StateRefreshing {
			m.state = StateAuthenticated
		}
		m.mu.Unlock()

		m.logger.Warn("token refresh failed, ending session", "error", err)
		m.Logout(ctx)
		return false
	}

	m.state = StateAuthenticated
	m.accessToken = resp.AccessToken
	m.authenticated = true
	m.client.SetToken(resp.AccessToken)
	m.persistLocked()
	sched := m.sched
	m.mu.Unlock()

	m.logger.Debug("access token refreshed")

	if sched != nil {
		sched.Arm()
	}
	return true
}

// Reauthorize implements platform.Reauthorizer. Concurrent calls share a
// single refresh: the first caller performs it, everyone else waits for the
// outcome. Every waiter observes the result exactly once.
func (m *Manager) Reauthorize(ctx context.Context) (string, bool) {
	ch, leader := m.coord.enter()
	if !leader {
		select {
		case res := <-ch:
			return res.token, res.ok
		case <-ctx.Done():
			return "", false
		}
	}

	ok := m.RefreshAccessToken(ctx)
	token := m.AccessToken()
	ok = ok && token != ""

	m.coord.exit(refreshResult{token: token, ok: ok})
	return token, ok
}

// InitializeAuth restores a persisted session at process start. With a
// persisted access token it validates the token by fetching the current user
// profile; on success the session is authenticated with a fresh user. On
// failure it falls back to a token refresh; if that fails too the session has
// already been reset and nothing more is needed. Without a persisted access
// token this performs no network I/O.
func (m *Manager) InitializeAuth(ctx context.Context) {
	m.mu.Lock()
	token := m.accessToken
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.bootstrapped = true
		m.mu.Unlock()
	}()

	if token == "" {
		return
	}

	m.client.SetToken(token)

	user, err := m.client.GetCurrentUser(ctx)
	if err == nil {
		m.mu.Lock()
		m.state = StateAuthenticated
		m.user = user
		m.authenticated = true
		m.persistLocked()
		sched := m.sched
		m.mu.Unlock()

		m.logger.Debug("restored session", "email", user.Email)

		if sched != nil {
			sched.Arm()
		}
		return
	}

	m.logger.Debug("persisted token rejected, falling back to refresh", "error", err)

	// If the profile fetch already recovered through the interceptor and
	// still failed, the session is reset and this returns immediately.
	m.RefreshAccessToken(ctx)
}

// ClearError discards the last recorded operation error.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.lastError = ""
	m.mu.Unlock()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the cached user profile, or nil when anonymous.
func (m *Manager) CurrentUser() *platform.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// AccessToken returns the current access token, or "" when anonymous.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken
}

// IsAuthenticated reports whether the session holds a usable token.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// IsLoading reports whether an auth operation is in flight.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// LastError returns the message from the last failed login or registration.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// Bootstrapped reports whether InitializeAuth has resolved. UI surfaces must
// treat "not yet bootstrapped" as loading, not as anonymous, to avoid a
// flash-redirect to login before a valid persisted session is confirmed.
func (m *Manager) Bootstrapped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bootstrapped
}

// errorMessage extracts the server-provided message from an API error, or
// returns the fallback.
func errorMessage(err error, fallback string) string {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
