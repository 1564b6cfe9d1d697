package httpapi

import (
	"sync"
	"time"
)

// DefaultIdleTimeout is how long a client's window is kept after it opened
const DefaultIdleTimeout = time.Hour

// window counts the requests one client made since start
type window struct {
	start time.Time
	used  int
}

// RateLimiter allows limit requests per client within each fixed window.
// Idle clients are swept by a background goroutine that Stop ends.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	idle    time.Duration
	sweep   time.Duration
	windows map[string]*window
	now     func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// RateLimiterOption customizes a RateLimiter
type RateLimiterOption func(*RateLimiter)

// WithIdleTimeout drops a client's window once it has been idle for d.
// The sweep runs every d/2.
func WithIdleTimeout(d time.Duration) RateLimiterOption {
	return func(r *RateLimiter) {
		if d > 0 {
			r.idle = d
			r.sweep = d / 2
		}
	}
}

func NewRateLimiter(limit int, period time.Duration, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		period:  period,
		idle:    DefaultIdleTimeout,
		sweep:   DefaultIdleTimeout / 2,
		windows: make(map[string]*window),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.sweepLoop()
	return rl
}

func (r *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(r.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.done:
			return
		}
	}
}

func (r *RateLimiter) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for client, w := range r.windows {
		if now.Sub(w.start) > r.idle {
			delete(r.windows, client)
		}
	}
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Allow records a request from client. When the client is over its limit it
// returns false and how long until its window resets.
func (r *RateLimiter) Allow(client string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	w, ok := r.windows[client]
	if !ok || now.Sub(w.start) >= r.period {
		w = &window{start: now}
		r.windows[client] = w
	}

	if w.used >= r.limit {
		return false, w.start.Add(r.period).Sub(now)
	}
	w.used++
	return true, 0
}
