package middleware

import (
	"net/http"
	"strings"

	"github.com/foodmate/foodmate-golang/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the request's JWT and puts the user ID on the
// context. The token is taken from the Authorization header (Bearer) or,
// for the browser frontend, from the 'token' cookie.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else if cookie, err := c.Cookie("token"); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		userID, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
