package middleware

import (
	"context"
	"time"

	"peerlink/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware assigns a request id and logs every request with
// its status and duration.
func RequestLoggerMiddleware(zapLogger *zap.Logger) gin.HandlerFunc {
	ctxLogger := logger.NewContextLogger(zapLogger)

	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)

		c.Next()

		ctxLogger.LogRequest(ctx, c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Milliseconds())
	}
}
