package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

type limiterPool struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	r       rate.Limit
	burst   int
	ttl     time.Duration
}

func newLimiterPool(r rate.Limit, burst int, ttl time.Duration) *limiterPool {
	return &limiterPool{
		clients: make(map[string]*clientLimiter),
		r:       r,
		burst:   burst,
		ttl:     ttl,
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if cl, ok := p.clients[key]; ok {
		cl.seen = now
		return cl.lim
	}

	// Prune idle entries while holding the lock; the map stays small
	// and this avoids a dedicated GC goroutine.
	for k, cl := range p.clients {
		if now.Sub(cl.seen) > p.ttl {
			delete(p.clients, k)
		}
	}

	lim := rate.NewLimiter(p.r, p.burst)
	p.clients[key] = &clientLimiter{lim: lim, seen: now}
	return lim
}

// RateLimit returns a per-client-IP token bucket rate limiting middleware.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	pool := newLimiterPool(r, burst, 2*time.Minute)
	return func(c *gin.Context) {
		if !pool.get(clientIP(c.Request.RemoteAddr)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
			return
		}
		c.Next()
	}
}

func clientIP(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}
