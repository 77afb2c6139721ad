package session

import "time"

// Timer is the per-room countdown primitive. A session manipulates it
// only from its own command loop, so no locking is needed; protection
// against stale expiry racing a last-instant player action comes from
// the generation numbers the session threads through the callbacks.
type Timer struct {
	interval time.Duration
	stop     chan struct{}
}

// NewTimer creates a countdown emitting at the given cadence.
// Production uses one second; tests shrink it.
func NewTimer(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{interval: interval}
}

// Start cancels any running countdown and begins a new one of the
// given length. onTick fires once per interval with the remaining
// count; onExpire fires exactly once when the count reaches zero,
// unless Cancel or a subsequent Start intervenes first.
func (t *Timer) Start(seconds int, gen uint64, onTick func(gen uint64, remaining int), onExpire func(gen uint64)) {
	t.Cancel()

	stop := make(chan struct{})
	t.stop = stop

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		remaining := seconds
		for {
			select {
			case <-ticker.C:
				remaining--
				if remaining <= 0 {
					onExpire(gen)
					return
				}
				onTick(gen, remaining)
			case <-stop:
				return
			}
		}
	}()
}

// Cancel stops the running countdown, if any
func (t *Timer) Cancel() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}
