package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Admin rejects callers that were not flagged as admin by Authenticate.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdminVal, exists := c.Get(IsAdminKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		isAdmin, ok := isAdminVal.(bool)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
			return
		}

		c.Next()
	}
}
