package session

import (
	"sync"
	"time"
)

// expiryTimer owns the single forced-logout timer for a session store.
// Scheduling a new expiry always cancels the previous one, so at most one
// timer is pending at any time.
type expiryTimer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Schedule arms the timer to fire fn after d, cancelling any pending timer.
func (t *expiryTimer) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, fn)
}

// Cancel stops the pending timer, if any.
func (t *expiryTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
