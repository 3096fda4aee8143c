package middleware

import (
	"net/http"
	"strconv"
	"time"

	"telegram_assistant/internal/cache"
	"telegram_assistant/internal/logger"

	"github.com/gin-gonic/gin"
)

// RedisRateLimit implements a fixed-window per-IP limit on top of the shared
// Redis limiter. Without Redis, or on a Redis error, requests pass.
func RedisRateLimit(limiter *cache.RateLimiter, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := limiter.Allow(c.Request.Context(), "api", c.ClientIP(), maxRequests, window)
		if err != nil {
			// fail-open but flag it
			c.Header("X-RateLimit-Error", "redis-error")
			logger.WithContext(c.Request.Context()).Warn("rate limiter error", "error", err)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))

		if !ok {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
