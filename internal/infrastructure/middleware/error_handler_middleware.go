package middleware

import (
	"net/http"

	"peerlink/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandlerMiddleware converts errors attached to the gin context into the
// relay's structured JSON error responses.
func ErrorHandlerMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		appErr := errors.GetAppError(err)
		if appErr != nil {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Errorw("application error",
					"code", appErr.Code,
					"message", appErr.Message,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
			}
			c.JSON(appErr.HTTPStatus, gin.H{
				"success": false,
				"error":   string(appErr.Code),
				"message": appErr.Message,
			})
			return
		}

		// anything unexpected becomes a generic server error; the relay must
		// survive one bad request without affecting the next
		logger.Errorw("unhandled error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   string(errors.ErrCodeInternal),
			"message": "Server error",
		})
	}
}

// RecoveryMiddleware recovers from panics and returns proper error responses
func RecoveryMiddleware(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Errorw("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   string(errors.ErrCodeInternal),
					"message": "Server error",
				})
			}
		}()

		c.Next()
	}
}
