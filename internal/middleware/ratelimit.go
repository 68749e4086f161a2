package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter keeps one token bucket per client IP. Buckets that have not
// been touched for an hour are dropped on the next sweep so the map does not
// grow without bound.
type clientLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	clients  map[string]*clientEntry
	lastSeen time.Duration
}

type clientEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		limit:    limit,
		burst:    burst,
		clients:  make(map[string]*clientEntry),
		lastSeen: time.Hour,
	}
}

func (cl *clientLimiter) allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	entry, ok := cl.clients[key]
	if !ok {
		if len(cl.clients) > 1024 {
			for k, e := range cl.clients {
				if now.Sub(e.seen) > cl.lastSeen {
					delete(cl.clients, k)
				}
			}
		}
		entry = &clientEntry{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[key] = entry
	}
	entry.seen = now
	return entry.limiter.Allow()
}

func rateLimitWith(cl *clientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRateLimit allows 5 auth attempts per 15 minutes per client.
func AuthRateLimit() gin.HandlerFunc {
	return rateLimitWith(newClientLimiter(rate.Every(15*time.Minute/5), 5))
}

// CheckoutRateLimit allows 10 checkout attempts per minute per client.
func CheckoutRateLimit() gin.HandlerFunc {
	return rateLimitWith(newClientLimiter(rate.Every(time.Minute/10), 10))
}
