package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/AnTengye/contractmock/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a 500 in the {"message": ...} envelope.
// If the handler already started its response, the connection keeps what was
// written and the chain is only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.Error(c.Request.Context(), "panic recovered",
				"panic", rec,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message":    "Internal server error",
				"request_id": GetRequestID(c),
			})
		}()

		c.Next()
	}
}
