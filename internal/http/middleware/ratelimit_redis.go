package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"flowtasks/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes the shared Redis client used by the rate
// limiter. If addr is empty or the ping fails the client stays nil and the
// middleware lets all requests through.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		return
	}
	redisClient = client
}

// RedisRateLimit is a fixed-window limiter backed by Redis INCR/EXPIRE.
// Authenticated requests are counted per user, anonymous ones per client IP.
// Redis errors fail open: availability wins over enforcement.
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		ident := c.ClientIP()
		if userID := c.GetString("user_id"); userID != "" {
			ident = userID
		}
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident

		ctx := c.Request.Context()
		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter redis error", "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
