package middleware

import (
	"net/http"
	"strconv"

	"service-catalog/internal/access"
	"service-catalog/internal/redis"
	catalog_errors "service-catalog/pkg/errors"
	"service-catalog/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WriteRateLimitMiddleware limits catalog mutations per caller. Reads pass
// through. A limiter failure lets the request through.
func WriteRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWrite(c.Request.Method) {
			c.Next()
			return
		}
		caller, ok := access.CallerFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		result, err := limiter.AllowWrite(c.Request.Context(), caller.UserID.String())
		if err != nil {
			if l != nil {
				l.WithContext(c.Request.Context()).Warn("rate limit check failed", zap.Error(err))
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			_ = c.Error(catalog_errors.RateLimited("Too many write requests. Try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
