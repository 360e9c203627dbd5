package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pytake/flowengine/internal/config"
	"github.com/pytake/flowengine/internal/redis"
)

// window is the fixed bucket size the per-IP counter resets on; the
// limit applied to it is cfg.RateLimitRPS + cfg.RateLimitBurst
// requests per window.
const window = time.Second

// RateLimiter throttles every route it is installed on (cmd/api/main.go
// installs it router-wide) per client IP using a
// Redis INCR+EXPIRE counter, adapted from the teacher's
// internal/middleware/rate_limiter.go. Ambient HTTP protection only —
// any Redis error fails open so a flaky cache never blocks the engine.
func RateLimiter(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.RateLimitEnabled {
			c.Next()
			return
		}

		ctx := context.Background()
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		limit := int64(cfg.RateLimitRPS + cfg.RateLimitBurst)
		if count > limit {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Writer.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Writer.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Writer.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))

		c.Next()
	}
}
