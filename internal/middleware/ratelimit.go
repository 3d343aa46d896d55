package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiters keeps one token bucket per client IP.
type ipLimiters struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	r       rate.Limit
	burst   int
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[ip]; ok {
		return b
	}
	b := rate.NewLimiter(l.r, l.burst)
	l.buckets[ip] = b
	return b
}

// RateLimit rejects callers exceeding r requests/second per IP.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	limiters := &ipLimiters{
		buckets: make(map[string]*rate.Limiter),
		r:       r,
		burst:   burst,
	}
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
