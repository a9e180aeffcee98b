package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthRequired enforces the shared API token when one is configured. With no
// token set the API is open, which is the default for same-origin widget
// deployments.
func AuthRequired(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
