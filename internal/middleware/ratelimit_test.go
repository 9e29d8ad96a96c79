package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/forgo/guildhall/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
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

func newTestLimiter(t *testing.T, cfg RateLimitConfig) (*RateLimiter, *fakeClock) {
	t.Helper()
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)
	clock := newFakeClock()
	rl.now = clock.Now
	return rl, clock
}

// ============================================================================
// NewRateLimiter Tests (Configuration)
// ============================================================================

func TestNewRateLimiter_DefaultConfig(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{})

	assert.Equal(t, 100, rl.rate)
	assert.Equal(t, time.Minute, rl.window)
	assert.Equal(t, 20, rl.burst)
	assert.Equal(t, 5*time.Minute, rl.cleanup)
}

// ============================================================================
// Allow() Tests
// ============================================================================

func TestAllow_CapacityIsRatePlusBurst(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 5, Window: time.Minute, Burst: 2})

	for i := 0; i < 7; i++ {
		allowed, remaining, _ := rl.Allow("ip:1.2.3.4")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 6-i, remaining)
	}

	allowed, remaining, _ := rl.Allow("ip:1.2.3.4")
	assert.False(t, allowed)
	assert.Zero(t, remaining)

	other, _, _ := rl.Allow("ip:5.6.7.8")
	assert.True(t, other, "buckets are per key")
}

func TestAllow_RefillsOverTime(t *testing.T) {
	t.Parallel()
	rl, clock := newTestLimiter(t, RateLimitConfig{Rate: 60, Window: time.Minute, Burst: 1})

	for i := 0; i < 61; i++ {
		rl.Allow("k")
	}
	allowed, _, _ := rl.Allow("k")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _, _ = rl.Allow("k")
	assert.True(t, allowed, "one token per second at 60/min")

	clock.Advance(10 * time.Minute)
	_, remaining, _ := rl.Allow("k")
	assert.Equal(t, 60, remaining, "refill is capped at capacity")
}

func TestAllow_ResetTime(t *testing.T) {
	t.Parallel()
	rl, clock := newTestLimiter(t, RateLimitConfig{Rate: 60, Window: time.Minute, Burst: 1})

	_, _, reset := rl.Allow("k")
	assert.Equal(t, clock.Now().Add(time.Second), reset, "one token short of full")
}

func TestAllow_ConcurrentAccess_ThreadSafe(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 50, Window: time.Minute, Burst: 0})
	rl.burst = 0

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, _ := rl.Allow("shared"); ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, granted)
}

// ============================================================================
// Cleanup Tests
// ============================================================================

func TestCleanup_RemovesIdleBuckets(t *testing.T) {
	t.Parallel()
	rl, clock := newTestLimiter(t, RateLimitConfig{Rate: 10, Window: time.Minute})

	rl.Allow("idle")
	clock.Advance(90 * time.Second)
	rl.Allow("fresh")
	clock.Advance(45 * time.Second)

	rl.cleanupExpired()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "idle")
	assert.Contains(t, rl.visitors, "fresh")
}

func TestStop_IsIdempotent(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})
	rl.Stop()
	rl.Stop()
}

// ============================================================================
// RateLimit Middleware Tests
// ============================================================================

func TestRateLimitMiddleware_SetsHeaders(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 100, Window: time.Minute, Burst: 20})

	rr := httptest.NewRecorder()
	RateLimit(rl)(okHandler("ok")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "100", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "119", rr.Header().Get("X-RateLimit-Remaining"))
	_, err := strconv.ParseInt(rr.Header().Get("X-RateLimit-Reset"), 10, 64)
	assert.NoError(t, err)
}

func TestRateLimitMiddleware_DeniedRequest_Returns429(t *testing.T) {
	t.Parallel()
	rl, _ := newTestLimiter(t, RateLimitConfig{Rate: 1, Window: time.Minute, Burst: 1})
	handler := RateLimit(rl)(okHandler("ok"))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "rate-limited")
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	anon.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "ip:10.0.0.7", clientKey(anon))

	// the port changes per connection; the host is what identifies the client
	anon.RemoteAddr = "10.0.0.7:60000"
	assert.Equal(t, "ip:10.0.0.7", clientKey(anon))

	authed := anon.WithContext(WithUser(anon.Context(), &model.User{ID: 3}))
	assert.Equal(t, "user:3", clientKey(authed))
}
