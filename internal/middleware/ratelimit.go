package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pollpulse/backend/pkg/response"
)

// RateLimit returns a Redis-backed per-IP fixed-window limiter. The counter
// key rolls over every minute. Redis failures fail open so a limiter outage
// never takes the dashboard down with it.
func RateLimit(rdb redis.Cmdable, perMinute int, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		key := rateLimitKey(ip, time.Now())

		ctx := c.Request.Context()
		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if n == 1 {
			rdb.Expire(ctx, key, time.Minute)
		}
		if n > int64(perMinute) {
			response.TooManyRequests(c, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

func rateLimitKey(ip string, now time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", ip, now.Unix()/60)
}
