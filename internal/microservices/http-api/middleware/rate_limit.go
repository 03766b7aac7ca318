package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"softwire/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const rateLimitMessage = "Too many authentication attempts. Please try again later."

// Limiter counts requests per key in fixed windows. Allow reports whether the
// request identified by key fits within limit for the current window and, if
// not, how long until the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

type fixedWindow struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter is a process-local fixed-window limiter. Windows start at the
// first counted request for a key.
type MemoryLimiter struct {
	mu      sync.Mutex
	store   map[string]*fixedWindow
	cleanup time.Time
	now     func() time.Time
}

// NewMemoryLimiter returns a MemoryLimiter. now may be nil to use the wall
// clock.
func NewMemoryLimiter(now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		store:   make(map[string]*fixedWindow),
		cleanup: now().Add(time.Minute),
		now:     now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.cleanup) {
		for k, v := range l.store {
			if now.Sub(v.windowStart) >= window {
				delete(l.store, k)
			}
		}
		l.cleanup = now.Add(window)
	}

	entry, ok := l.store[key]
	if !ok || now.Sub(entry.windowStart) >= window {
		l.store[key] = &fixedWindow{count: 1, windowStart: now}
		return true, 0, nil
	}
	if entry.count >= limit {
		return false, window - now.Sub(entry.windowStart), nil
	}
	entry.count++
	return true, 0, nil
}

// Len reports the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.store)
}

// RateLimitOptions configures RateLimit.
type RateLimitOptions struct {
	Limit  int
	Window time.Duration
	// FailOpen lets requests through when the limiter backend errors.
	FailOpen bool
	// Scope prefixes the key so that separate route groups can share a
	// backend without sharing counters.
	Scope string
}

// RateLimit rejects requests from a client address that has exhausted its
// window, before any later handler runs.
func RateLimit(limiter Limiter, opts RateLimitOptions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := opts.Scope + ":" + c.ClientIP()
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key, opts.Limit, opts.Window)
		if err != nil {
			if opts.FailOpen {
				logger.Warn("rate limiter backend unavailable, allowing request", zap.Error(err))
				c.Next()
				return
			}
			logger.Error("rate limiter backend unavailable, rejecting request", zap.Error(err))
			retryAfter = opts.Window
			allowed = false
		}
		if !allowed {
			c.Header("Retry-After", retryAfterHeader(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.MessageResponse{
				Success: false,
				Message: rateLimitMessage,
			})
			return
		}
		c.Next()
	}
}

func retryAfterHeader(d time.Duration) string {
	seconds := int((d + time.Second - 1) / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
