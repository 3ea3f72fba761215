package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/pkg/apperror"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

// ErrorMiddleware renders the last error a handler attached with c.Error.
// Details and raw causes are only exposed when exposeDetails is set.
func ErrorMiddleware(log logger.Logger, exposeDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, fields...)
		} else {
			log.Warn("Request rejected", append(fields, zap.String("error", err.Error()))...)
		}

		if appErr, ok := apperror.As(err); ok {
			c.AbortWithStatusJSON(status, appErr.ToJSON(exposeDetails))
			return
		}

		message := "Something went wrong"
		if exposeDetails {
			message = err.Error()
		}
		c.AbortWithStatusJSON(status, gin.H{
			"error":   "Internal Server Error",
			"message": message,
		})
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
