package webserver

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a sliding-window request counter per key.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	rate     int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		rate:     rate,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request for key and reports whether it fits the window.
// When it does not, the wait until the oldest request expires is returned.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if now.Sub(t) < rl.window {
			valid = append(valid, t)
		}
	}
	if len(valid) >= rl.rate {
		rl.requests[key] = valid
		return false, rl.window - now.Sub(valid[0])
	}
	rl.requests[key] = append(valid, now)

	// Drop idle keys so the map does not grow with every client seen.
	for k, times := range rl.requests {
		if len(times) > 0 && now.Sub(times[len(times)-1]) >= rl.window {
			delete(rl.requests, k)
		}
	}
	return true, 0
}

// RateLimitMiddleware limits by authenticated admin, falling back to the
// client IP.
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("admin")
		if key == "" {
			key = c.ClientIP()
		}
		if ok, wait := limiter.Allow(key); !ok {
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			abortJSON(c, http.StatusTooManyRequests,
				fmt.Sprintf("rate limit exceeded: %d requests per %v", limiter.rate, limiter.window))
			return
		}
		c.Next()
	}
}
