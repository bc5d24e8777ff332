package middleware

import (
	"service-catalog/internal/transport/httpdto"
	catalog_errors "service-catalog/pkg/errors"
	"service-catalog/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := httpdto.FromError(err)
		if l != nil {
			log := l.WithContext(c.Request.Context())
			if status >= 500 {
				log.Error("request failed", zap.Int("status", status), zap.Error(err))
			} else {
				log.Info("request rejected", zap.Int("status", status), zap.String("code", body.Error.Code),
					zap.String("kind", string(catalog_errors.KindOf(err))))
			}
		}
		c.JSON(status, body)
	}
}
