package middleware

import (
	"MoodCheckin/internal/pkg/logger"
	"MoodCheckin/internal/pkg/ratelimit"
	"MoodCheckin/internal/pkg/response"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware 按客户端 IP 限流，Redis 不可用时放行
func RateLimitMiddleware(limiter ratelimit.Limiter, diag *logger.Cooldown) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			diag.Warn(c.Request.Context(), "rate_limit_unavailable", "rate limiter unavailable, allowing request", "err", err)
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(int(math.Ceil(result.Reset.Seconds()))))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(result.Reset.Seconds()))))
			response.Fail(c, http.StatusTooManyRequests, response.MsgTooMany)
			return
		}
		c.Next()
	}
}
