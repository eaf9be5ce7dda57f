package middleware

import (
	"context"
	"sync"
	"time"

	apperrors "storefront-service/common/errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type bucket struct {
	*rate.Limiter
	touched time.Time
}

// RateLimiter hands out one token bucket per key, usually the client IP.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	every   rate.Limit
	burst   int
	idle    time.Duration
}

func NewRateLimiter(every rate.Limit, burst int, idle time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: map[string]*bucket{},
		every:   every,
		burst:   burst,
		idle:    idle,
	}
}

// Allow takes a token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	b := rl.buckets[key]
	if b == nil {
		b = &bucket{Limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.buckets[key] = b
	}
	b.touched = time.Now()
	rl.mu.Unlock()

	return b.Allow()
}

// Len is the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Sweep forgets buckets idle for longer than the configured window.
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	n := 0
	for key, b := range rl.buckets {
		if now.Sub(b.touched) > rl.idle {
			delete(rl.buckets, key)
			n++
		}
	}
	return n
}

func (rl *RateLimiter) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.Sweep(now)
		}
	}
}

// RateLimitMiddleware allows perMinute requests per client IP with bursts of half
// that. Idle buckets are swept until ctx is done.
func RateLimitMiddleware(ctx context.Context, perMinute int) gin.HandlerFunc {
	burst := max(perMinute/2, 1)
	rl := NewRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst, 5*time.Minute)
	go rl.sweepLoop(ctx)

	return func(c *gin.Context) {
		if rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(apperrors.ErrTooManyRequests.Code, apperrors.ErrTooManyRequests)
	}
}
