package middleware

import (
	"time"

	"github.com/AnTengye/contractmock/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger writes one access log line per request. The level follows
// the status class: 5xx error, 4xx warn, everything else info.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rawQuery := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"latency_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
		}
		if rawQuery != "" {
			attrs = append(attrs, "query", rawQuery)
		}

		// request_id and client_ip come from the context when RequestID ran first
		ctx := c.Request.Context()
		if GetRequestID(c) == "" {
			attrs = append(attrs, "client_ip", c.ClientIP())
		}

		switch {
		case status >= 500:
			logger.Error(ctx, "request completed", attrs...)
		case status >= 400:
			logger.Warn(ctx, "request completed", attrs...)
		default:
			logger.Info(ctx, "request completed", attrs...)
		}
	}
}
