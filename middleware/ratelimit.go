package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	maxBuckets    = 1000
	bucketMaxIdle = 10 * time.Minute
)

// bucket tracks the token balance for a single client IP.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter applies a per-IP token bucket to incoming requests.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	rate       float64 // tokens per second
	bucketSize float64
}

// NewRateLimiter returns a limiter allowing rate requests per second with
// bursts up to bucketSize.
func NewRateLimiter(rate float64, bucketSize float64) *RateLimiter {
	return &RateLimiter{
		buckets:    make(map[string]*bucket),
		rate:       rate,
		bucketSize: bucketSize,
	}
}

// RateLimit returns the gin middleware enforcing the limiter.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		now := time.Now()

		b, exists := rl.buckets[ip]
		if !exists {
			b = &bucket{tokens: rl.bucketSize, lastRefill: now}
			rl.buckets[ip] = b
			rl.evictStale(now)
		}

		// Refill tokens based on time elapsed.
		elapsed := now.Sub(b.lastRefill)
		b.tokens = min(rl.bucketSize, b.tokens+elapsed.Seconds()*rl.rate)
		b.lastRefill = now

		if b.tokens < 1 {
			rl.mu.Unlock()
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		b.tokens--
		rl.mu.Unlock()

		c.Next()
	}
}

// evictStale drops buckets for clients that have gone quiet so the map
// does not grow without bound. Caller must hold the mutex.
func (rl *RateLimiter) evictStale(now time.Time) {
	if len(rl.buckets) <= maxBuckets {
		return
	}
	for ip, b := range rl.buckets {
		if now.Sub(b.lastRefill) > bucketMaxIdle {
			delete(rl.buckets, ip)
		}
	}
}
