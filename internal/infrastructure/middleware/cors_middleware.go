package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware permits cross-origin access from any origin. Peers load the
// relay from file:// pages and arbitrary hosts, so the policy is deliberately
// open; pre-flight requests succeed with no body.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
