package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

var errRateLimited = errs.New("rate limit exceeded")

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than the idle TTL are swept on a later request, at most once per TTL.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	clock     clock.Clock
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return NewRateLimiterWithClock(cfg, clock.NewRealClock())
}

func NewRateLimiterWithClock(cfg config.RateLimitConfig, clk clock.Clock) *RateLimiter {
	idle := cfg.IdleTTL
	if idle <= 0 {
		idle = defaultLimiterIdleTTL
	}
	return &RateLimiter{
		limiters:  make(map[string]*clientLimiter),
		limit:     rate.Limit(cfg.RequestsPerSecond),
		burst:     cfg.Burst,
		idleTTL:   idle,
		lastSweep: clk.Now(),
		clock:     clk,
	}
}

func (r *RateLimiter) limiterFor(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if now.Sub(r.lastSweep) >= r.idleTTL {
		r.sweep(now)
	}

	cl, ok := r.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

func (r *RateLimiter) sweep(now time.Time) {
	for key, cl := range r.limiters {
		if now.Sub(cl.lastSeen) >= r.idleTTL {
			delete(r.limiters, key)
		}
	}
	r.lastSweep = now
}

// Clients reports how many client buckets are tracked.
func (r *RateLimiter) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !r.limiterFor(ip).Allow() {
			slog.Warn("rate limit exceeded", "client_ip", ip, "path", c.Request.URL.Path)
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
