package middleware

import (
	"net/http"
	"strings"

	"flowtasks/internal/service"

	"github.com/gin-gonic/gin"
)

// Auth validates the Bearer token and stores the acting user's id in the gin
// context under "user_id". Every state-changing handler threads that id
// explicitly into the service layer.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
