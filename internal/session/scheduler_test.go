package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSchedulerRefreshesProactively(t *testing.T) {
	backend := newTestBackend()
	mgr, client, _ := newTestManager(t, backend)
	sched := NewScheduler(mgr, 25*time.Millisecond, nil)
	mgr.AttachScheduler(sched)
	defer sched.Disarm()

	require.NoError(t, mgr.Login(context.Background(), "a@b.com", "Secret1!"))

	waitFor(t, 2*time.Second, func() bool {
		return backend.refreshCalls.Load() >= 1
	}, "scheduler never fired a proactive refresh")

	waitFor(t, 2*time.Second, func() bool {
		return mgr.AccessToken() == "access-fresh"
	}, "proactive refresh did not rotate the access token")

	assert.True(t, mgr.IsAuthenticated())
	assert.Equal(t, "access-fresh", client.Token())

	// Each successful refresh re-arms the timer, so refreshes keep coming.
	first := backend.refreshCalls.Load()
	waitFor(t, 2*time.Second, func() bool {
		return backend.refreshCalls.Load() > first
	}, "scheduler did not re-arm after a successful refresh")
}

func TestSchedulerDisarmedOnLogout(t *testing.T) {
	backend := newTestBackend()
	mgr, _, _ := newTestManager(t, backend)
	sched := NewScheduler(mgr, 25*time.Millisecond, nil)
	mgr.AttachScheduler(sched)
	defer sched.Disarm()

	require.NoError(t, mgr.Login(context.Background(), "a@b.com", "Secret1!"))
	waitFor(t, 2*time.Second, func() bool {
		return backend.refreshCalls.Load() >= 1
	}, "scheduler never fired before logout")

	mgr.Logout(context.Background())

	// Let any in-flight tick drain, then verify the timer went quiet.
	time.Sleep(100 * time.Millisecond)
	settled := backend.refreshCalls.Load()
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, settled, backend.refreshCalls.Load(), "no refreshes after logout")
	assert.False(t, mgr.IsAuthenticated())
	assert.Empty(t, mgr.AccessToken(), "a disarmed timer must not repopulate the session")
}

func TestSchedulerSkipsAnonymousSession(t *testing.T) {
	backend := newTestBackend()
	mgr, _, _ := newTestManager(t, backend)
	sched := NewScheduler(mgr, 20*time.Millisecond, nil)
	defer sched.Disarm()

	sched.Arm()
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(0), backend.totalRequests.Load(), "anonymous ticks must not touch the network")
}

func TestSchedulerArmReplacesTimer(t *testing.T) {
	backend := newTestBackend()
	mgr, _, _ := newTestManager(t, backend)
	sched := NewScheduler(mgr, time.Hour, nil)
	defer sched.Disarm()

	// Arming repeatedly must not stack timers or panic on re-entry.
	for i := 0; i < 5; i++ {
		sched.Arm()
	}
	sched.Disarm()
	sched.Disarm()
}

func TestNewSchedulerDefaultInterval(t *testing.T) {
	backend := newTestBackend()
	mgr, _, _ := newTestManager(t, backend)

	sched := NewScheduler(mgr, 0, nil)
	assert.Equal(t, DefaultRefreshInterval, sched.interval)

	sched = NewScheduler(mgr, -time.Second, nil)
	assert.Equal(t, DefaultRefreshInterval, sched.interval)
}
