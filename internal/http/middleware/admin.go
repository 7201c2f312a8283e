package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const AdminAPIKeyHeader = "X-Admin-API-Key"

// RequireAdminAPIKey guards the admin console. The key arrives in
// X-Admin-API-Key or as a bearer token. An empty configured key disables
// the console entirely.
func RequireAdminAPIKey(adminAPIKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminAPIKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin API not configured"})
			return
		}

		provided := c.GetHeader(AdminAPIKeyHeader)
		if provided == "" {
			provided = bearerToken(c)
		}
		provided = strings.TrimSpace(provided)

		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(adminAPIKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing admin API key"})
			return
		}

		c.Next()
	}
}
