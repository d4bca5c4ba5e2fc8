package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T) (*RateLimiter, *fakeClock) {
	t.Helper()
	rl := NewRateLimiter(time.Hour)
	t.Cleanup(rl.Stop)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl.now = clock.Now
	return rl, clock
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl, _ := newTestLimiter(t)
	h := rl.Limit("login", 3)(okHandler())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hit(h, "/login", "10.0.0.1:1234").Code, "request %d", i+1)
	}

	rec := hit(h, "/login", "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	// 3/min refills one token every 20s.
	assert.Equal(t, "20", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_KeyedByIPNotPort(t *testing.T) {
	rl, _ := newTestLimiter(t)
	h := rl.Limit("login", 1)(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "/login", "10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "/login", "10.0.0.1:2222").Code)
	assert.Equal(t, http.StatusOK, hit(h, "/login", "10.0.0.2:1111").Code)
}

func TestRateLimiter_ScopeSharedAcrossRoutes(t *testing.T) {
	rl, _ := newTestLimiter(t)
	api := rl.Limit("login", 2)(okHandler())
	form := rl.Limit("login", 2)(okHandler())
	signup := rl.Limit("signup", 2)(okHandler())

	assert.Equal(t, http.StatusOK, hit(api, "/api/auth/login", "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, hit(form, "/login", "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(api, "/api/auth/login", "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, hit(signup, "/signup", "10.0.0.1:1").Code)
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl, clock := newTestLimiter(t)
	h := rl.Limit("login", 60)(okHandler())

	for i := 0; i < 60; i++ {
		hit(h, "/login", "10.0.0.1:1")
	}
	require.Equal(t, http.StatusTooManyRequests, hit(h, "/login", "10.0.0.1:1").Code)

	clock.Advance(1100 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(h, "/login", "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "/login", "10.0.0.1:1").Code)
}

func TestRateLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	rl, clock := newTestLimiter(t)
	h := rl.Limit("login", 5)(okHandler())

	hit(h, "/login", "10.0.0.1:1")
	hit(h, "/login", "10.0.0.2:1")

	clock.Advance(idleBucketTTL / 2)
	hit(h, "/login", "10.0.0.2:1")

	clock.Advance(idleBucketTTL/2 + time.Second)
	assert.Equal(t, 1, rl.cleanup())
	assert.Len(t, rl.buckets, 1)
}

func TestRateLimiter_DisabledLimit(t *testing.T) {
	rl, _ := newTestLimiter(t)
	h := rl.Limit("login", 0)(okHandler())

	for i := 0; i < 100; i++ {
		require.Equal(t, http.StatusOK, hit(h, "/login", "10.0.0.1:1").Code)
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(time.Millisecond)
	rl.Stop()
	rl.Stop()
}
