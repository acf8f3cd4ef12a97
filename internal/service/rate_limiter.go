package service

import (
	"context"
	"sync"
	"time"
)

// Rate limiting constants
const (
	RateLimitWindow        = 4 * time.Second // One admission per client per window
	RateLimitSweepCapacity = 1500            // Ledger size that triggers a sweep
	RateLimitStaleWindows  = 15              // Entries older than this many windows are swept
)

// RateLimiter decides whether a client submits too frequently
type RateLimiter interface {
	// CheckAndRecord returns true when the client must be rejected. An
	// admitted call records the client as seen.
	CheckAndRecord(ctx context.Context, clientID string) (bool, error)
}

// MemoryRateLimiter keeps the ledger in process memory. Its guarantee is per
// instance: replicas each keep their own ledger.
type MemoryRateLimiter struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	window   time.Duration
	capacity int
	staleAge time.Duration
	now      func() time.Time
}

// MemoryRateLimiterOption customizes a MemoryRateLimiter
type MemoryRateLimiterOption func(*MemoryRateLimiter)

// WithClock injects the time source
func WithClock(now func() time.Time) MemoryRateLimiterOption {
	return func(l *MemoryRateLimiter) {
		l.now = now
	}
}

// WithSweepCapacity overrides the ledger size that triggers a sweep
func WithSweepCapacity(capacity int) MemoryRateLimiterOption {
	return func(l *MemoryRateLimiter) {
		l.capacity = capacity
	}
}

// NewMemoryRateLimiter creates an in-memory limiter with the default window
func NewMemoryRateLimiter(opts ...MemoryRateLimiterOption) *MemoryRateLimiter {
	l := &MemoryRateLimiter{
		lastSeen: make(map[string]time.Time),
		window:   RateLimitWindow,
		capacity: RateLimitSweepCapacity,
		staleAge: RateLimitStaleWindows * RateLimitWindow,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndRecord implements RateLimiter. It never fails.
func (l *MemoryRateLimiter) CheckAndRecord(_ context.Context, clientID string) (bool, error) {
	return l.Reject(clientID), nil
}

// Reject returns true if clientID was admitted less than one window ago.
// Otherwise it records the admission and sweeps stale entries once the
// ledger has grown past its capacity.
func (l *MemoryRateLimiter) Reject(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if previous, ok := l.lastSeen[clientID]; ok && now.Sub(previous) < l.window {
		return true
	}

	l.lastSeen[clientID] = now

	if len(l.lastSeen) > l.capacity {
		for candidate, ts := range l.lastSeen {
			if now.Sub(ts) > l.staleAge {
				delete(l.lastSeen, candidate)
			}
		}
	}

	return false
}

// Len returns the number of clients currently in the ledger
func (l *MemoryRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lastSeen)
}
