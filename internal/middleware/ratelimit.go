// ratelimit.go limits requests per client with a token bucket.
//
// Each client (API key hash or IP) gets a golang.org/x/time/rate limiter
// holding perHour tokens that refill evenly over the hour. An empty bucket
// gets 429 Too Many Requests.
package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

// RateLimiter tracks request rates per client.
type RateLimiter struct {
	perHour int

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perHour requests per client.
// A non-positive perHour disables limiting.
func NewRateLimiter(perHour int) *RateLimiter {
	rl := &RateLimiter{
		perHour: perHour,
		clients: make(map[string]*client),
	}
	if perHour > 0 {
		go rl.cleanup()
	}
	return rl
}

// RateLimit returns Gin middleware that enforces per-client limits.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.perHour <= 0 {
			c.Next()
			return
		}

		allowed, remaining := rl.allow(ClientID(c), time.Now())
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.perHour))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Rate limit exceeded. Try again later.",
				Code:    http.StatusTooManyRequests,
			})
			return
		}

		c.Next()
	}
}

// allow consumes a token for id if one is available.
func (rl *RateLimiter) allow(id string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[id]
	if !ok {
		cl = &client{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.perHour)/3600.0), rl.perHour),
		}
		rl.clients[id] = cl
	}
	cl.lastSeen = now

	allowed := cl.limiter.AllowN(now, 1)
	remaining := int(cl.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// cleanup periodically removes clients idle for over an hour.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for id, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > time.Hour {
				delete(rl.clients, id)
			}
		}
		rl.mu.Unlock()
	}
}
