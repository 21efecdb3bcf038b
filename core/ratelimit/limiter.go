// ABOUTME: Fixed window admission limiter keyed by client identity
// ABOUTME: Gates the resolution pipeline and reports when a rejected client may retry

package ratelimit

import (
	"sync"
	"time"
)

// Defaults match the public API's documented limits
const (
	DefaultLimit  = 100
	DefaultWindow = 15 * time.Minute
)

// Decision is the outcome of one admission attempt
type Decision struct {
	// Allowed is false once the client used up its window
	Allowed bool

	// Limit is the configured cap per window
	Limit int

	// Remaining is the number of admissions left in the current window
	Remaining int

	// RetryAfter is the time until the current window closes
	RetryAfter time.Duration
}

// RateWindow tracks admissions for one client. The window opens on the
// client's first admission and lasts for the limiter's window length.
type RateWindow struct {
	ClientID    string
	WindowStart time.Time
	Count       int
}

// Limiter admits at most limit requests per client in any window that starts
// at the client's first request of the cycle. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*RateWindow
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// NewLimiter creates a limiter. Non-positive arguments fall back to the defaults.
func NewLimiter(limit int, window time.Duration, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &Limiter{
		windows: make(map[string]*RateWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	go l.cleanup()

	return l
}

// Limit returns the admission cap per window
func (l *Limiter) Limit() int {
	return l.limit
}

// Window returns the window length
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Admit records an admission attempt for clientID
func (l *Limiter) Admit(clientID string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, exists := l.windows[clientID]

	if !exists || now.Sub(w.WindowStart) >= l.window {
		// New window or window expired
		l.windows[clientID] = &RateWindow{
			ClientID:    clientID,
			WindowStart: now,
			Count:       1,
		}
		return Decision{
			Allowed:    true,
			Limit:      l.limit,
			Remaining:  l.limit - 1,
			RetryAfter: l.window,
		}
	}

	retryAfter := w.WindowStart.Add(l.window).Sub(now)
	if w.Count < l.limit {
		w.Count++
		return Decision{
			Allowed:    true,
			Limit:      l.limit,
			Remaining:  l.limit - w.Count,
			RetryAfter: retryAfter,
		}
	}

	return Decision{
		Allowed:    false,
		Limit:      l.limit,
		Remaining:  0,
		RetryAfter: retryAfter,
	}
}

// Allow reports whether clientID is admitted
func (l *Limiter) Allow(clientID string) bool {
	return l.Admit(clientID).Allowed
}

// Close stops the background sweep
func (l *Limiter) Close() {
	l.once.Do(func() {
		close(l.stop)
	})
}

// cleanup removes expired windows periodically
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops every window that has elapsed
func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.windows {
		if now.Sub(w.WindowStart) >= l.window {
			delete(l.windows, key)
		}
	}
}

// tracked returns the number of live windows
func (l *Limiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
