package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// idleBucketTTL is how long an unused bucket survives cleanup.
const idleBucketTTL = 10 * time.Minute

// RateLimiter is a per-client token bucket limiter for the credential
// endpoints. Buckets are keyed by scope and client IP, so routes sharing a
// scope (the login API and the login form) share one budget.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time

	stop chan struct{}
	once sync.Once
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a rate limiter whose idle buckets are dropped every
// cleanupInterval. Call Stop on shutdown.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanupLoop(cleanupInterval)
	return rl
}

// Stop terminates the background cleanup goroutine. Safe to call twice.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit allows maxPerMinute requests per client IP within scope, refilling
// continuously. A non-positive limit disables limiting.
func (rl *RateLimiter) Limit(scope string, maxPerMinute int) Middleware {
	return func(next http.Handler) http.Handler {
		if maxPerMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wait, ok := rl.take(scope+"|"+clientIP(r), float64(maxPerMinute))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// take consumes one token, or reports how long until one is available.
func (rl *RateLimiter) take(key string, capacity float64) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	perSecond := capacity / 60

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, lastRefill: now}
		rl.buckets[key] = b
	}

	b.tokens = math.Min(capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*perSecond)
	b.lastRefill = now

	if b.tokens < 1 {
		return time.Duration((1 - b.tokens) / perSecond * float64(time.Second)), false
	}
	b.tokens--
	return 0, true
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, b := range rl.buckets {
		if now.Sub(b.lastRefill) > idleBucketTTL {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
