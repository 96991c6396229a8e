package session

import (
	"context"
	"sync"
	"time"

	"github.com/KuzscoTech/maas-management/internal/log"
)

// DefaultRefreshInterval is how often the scheduler refreshes the access
// token. The platform issues access tokens with a ~15-minute lifetime; the
// 5-minute margin absorbs clock skew and tick jitter.
const DefaultRefreshInterval = 10 * time.Minute

// Scheduler proactively refreshes the access token while the session is
// authenticated, so a long-running console never lets the token lapse
// between requests.
//
// The scheduler is tied to the session lifetime rather than free-running:
// the Manager arms it on login and on refresh success and disarms it on
// logout. Arming replaces any previous timer, so at most one runs per
// manager. Ticker loop structure follows the stop/done channel pattern.
type Scheduler struct {
	mgr      *Manager
	interval time.Duration
	logger   *log.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewScheduler creates a scheduler for the given manager. A non-positive
// interval falls back to DefaultRefreshInterval.
func NewScheduler(mgr *Manager, interval time.Duration, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		mgr:      mgr,
		interval: interval,
		logger:   logger,
	}
}

// Arm starts the refresh timer, cancelling and replacing any previous one.
func (s *Scheduler) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarmLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop = stop
	s.done = done

	s.logger.Debug("proactive token refresh armed", "interval", s.interval)
	go s.run(stop, done)
}

// Disarm cancels the refresh timer, if any. It does not wait for an in-flight
// tick to finish: a late refresh from a disarmed timer is discarded by the
// session epoch check.
func (s *Scheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
}

func (s *Scheduler) disarmLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
		s.done = nil
	}
}

func (s *Scheduler) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.mgr.IsAuthenticated() {
				// Disarm raced with this tick; nothing to refresh.
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			ok := s.mgr.RefreshAccessToken(ctx)
			cancel()

			if !ok {
				// Refresh failure already reset the session; this timer
				// has nothing left to do.
				s.logger.Debug("proactive refresh failed, timer exiting")
				return
			}
			// Refresh success re-arms with a fresh timer; this one is done.
			return
		case <-stop:
			return
		}
	}
}
