package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/ballot-board/internal/utils"
)

// BearerAuth accepts either the static API token or an HS256 JWT signed with
// jwtSecret. With both empty every request is let through.
func BearerAuth(apiToken, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiToken == "" && jwtSecret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if apiToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(apiToken)) == 1 {
			c.Set("subject", "api-token")
			c.Next()
			return
		}
		if jwtSecret != "" {
			if sub, err := utils.ParseJWTToken(token, jwtSecret); err == nil {
				c.Set("subject", sub)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}
