package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryRateLimiter_SameClientWithinWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewMemoryRateLimiter(WithClock(clock.Now))

	assert.False(t, limiter.Reject("10.0.0.1"))
	clock.Advance(3999 * time.Millisecond)
	assert.True(t, limiter.Reject("10.0.0.1"))
}

func TestMemoryRateLimiter_SameClientAfterWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewMemoryRateLimiter(WithClock(clock.Now))

	assert.False(t, limiter.Reject("10.0.0.1"))
	clock.Advance(RateLimitWindow)
	assert.False(t, limiter.Reject("10.0.0.1"))
}

func TestMemoryRateLimiter_RejectionDoesNotExtendWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewMemoryRateLimiter(WithClock(clock.Now))

	assert.False(t, limiter.Reject("client"))
	clock.Advance(2 * time.Second)
	assert.True(t, limiter.Reject("client"))
	clock.Advance(2 * time.Second)
	assert.False(t, limiter.Reject("client"))
}

func TestMemoryRateLimiter_DistinctClients(t *testing.T) {
	clock := newFakeClock()
	limiter := NewMemoryRateLimiter(WithClock(clock.Now))

	assert.False(t, limiter.Reject("a"))
	assert.False(t, limiter.Reject("b"))
	assert.True(t, limiter.Reject("a"))
}

func TestMemoryRateLimiter_SweepsStaleEntriesPastCapacity(t *testing.T) {
	clock := newFakeClock()
	limiter := NewMemoryRateLimiter(WithClock(clock.Now), WithSweepCapacity(3))

	for i := 0; i < 3; i++ {
		require.False(t, limiter.Reject(fmt.Sprintf("old-%d", i)))
	}
	assert.Equal(t, 3, limiter.Len())

	clock.Advance(RateLimitStaleWindows*RateLimitWindow + time.Millisecond)
	require.False(t, limiter.Reject("fresh"))

	assert.Equal(t, 1, limiter.Len())
}

func TestMemoryRateLimiter_NoSweepAtCapacity(t *testing.T) {
	clock := newFakeClock()
	limiter := NewMemoryRateLimiter(WithClock(clock.Now), WithSweepCapacity(3))

	require.False(t, limiter.Reject("old-0"))
	require.False(t, limiter.Reject("old-1"))
	clock.Advance(RateLimitStaleWindows*RateLimitWindow + time.Millisecond)
	require.False(t, limiter.Reject("fresh"))

	assert.Equal(t, 3, limiter.Len())
}

func TestMemoryRateLimiter_KeepsRecentEntriesDuringSweep(t *testing.T) {
	clock := newFakeClock()
	limiter := NewMemoryRateLimiter(WithClock(clock.Now), WithSweepCapacity(2))

	require.False(t, limiter.Reject("old"))
	clock.Advance(RateLimitStaleWindows*RateLimitWindow + time.Millisecond)
	require.False(t, limiter.Reject("recent"))
	require.False(t, limiter.Reject("fresh"))

	assert.Equal(t, 2, limiter.Len())
	assert.True(t, limiter.Reject("recent"))
}

func TestMemoryRateLimiter_ConcurrentAdmissionsAtMostOncePerWindow(t *testing.T) {
	defer goleak.VerifyNone(t)

	limiter := NewMemoryRateLimiter(WithClock(newFakeClock().Now))

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rejected, err := limiter.CheckAndRecord(context.Background(), "shared")
			if err == nil && !rejected {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), admitted.Load())
}
