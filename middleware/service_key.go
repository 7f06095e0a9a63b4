package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const ServiceKeyHeader = "X-Service-Key"

// ServiceKey admits only server-to-server callers presenting key in the
// X-Service-Key header. An empty key rejects every request.
func ServiceKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(ServiceKeyHeader)
		if key == "" || presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Service credentials required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
