package middleware

import (
	"context"
	"time"

	"tradingagent/backend/internal/util"
	"tradingagent/backend/pkg/logger"
	"tradingagent/backend/pkg/redis"

	"github.com/gin-gonic/gin"
)

// Counter is the subset of the Redis client the limiter needs
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// RateLimiter limits requests per client IP in fixed windows
type RateLimiter struct {
	counter   Counter
	limit     int
	window    time.Duration
	keyPrefix string
	log       *logger.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(counter Counter, limit int, window time.Duration, keyPrefix string, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		counter:   counter,
		limit:     limit,
		window:    window,
		keyPrefix: keyPrefix,
		log:       log,
	}
}

// Limit returns a middleware that limits requests
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := redis.RateLimitKey(c.ClientIP(), rl.keyPrefix)

		allowed, err := rl.checkRateLimit(c.Request.Context(), key)
		if err != nil {
			// Log error but don't block request
			rl.log.Error("Rate limit check failed", err)
			c.Next()
			return
		}

		if !allowed {
			util.AbortWithError(c, util.ErrRateLimit("Rate limit exceeded. Please try again later."))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) checkRateLimit(ctx context.Context, key string) (bool, error) {
	count, err := rl.counter.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := rl.counter.Expire(ctx, key, rl.window); err != nil {
			return false, err
		}
	}

	return count <= int64(rl.limit), nil
}

// RateLimit creates a per-IP, per-minute rate limiting middleware
func RateLimit(counter Counter, limit int, log *logger.Logger) gin.HandlerFunc {
	return NewRateLimiter(counter, limit, time.Minute, "general", log).Limit()
}
