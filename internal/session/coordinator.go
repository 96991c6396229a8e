package session

import "sync"

// refreshResult is broadcast to requests waiting behind an in-flight refresh.
type refreshResult struct {
	token string
	ok    bool
}

// refreshCoordinator coalesces concurrent token-refresh attempts triggered by
// failing requests. It replaces the pair of shared mutable flags the pattern
// is usually built from (an "is refreshing" boolean plus a subscriber list)
// with one explicit state object and two transitions:
//
//	enter: the first caller becomes the leader and owns the refresh; everyone
//	       arriving while it is in flight gets a channel to wait on.
//	exit:  the leader publishes the outcome to every waiter, exactly once,
//	       before the in-flight flag is cleared.
//
// Clearing the flag only after all waiters are notified (both happen under
// the same lock acquisition) closes the race between "check flag" and
// "start refresh".
type refreshCoordinator struct {
	mu       sync.Mutex
	inFlight bool
	waiters  []chan refreshResult
}

// enter joins the coordinator. The leader (leader=true) must perform the
// refresh and call exit with the outcome. Non-leaders receive a channel that
// yields the leader's outcome.
func (c *refreshCoordinator) enter() (<-chan refreshResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		return ch, false
	}

	c.inFlight = true
	return nil, true
}

// exit publishes the refresh outcome to all waiters and releases the
// coordinator. Channels are buffered, so no waiter can block the broadcast.
func (c *refreshCoordinator) exit(res refreshResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.waiters {
		ch <- res
	}
	c.waiters = nil
	c.inFlight = false
}
