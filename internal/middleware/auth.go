package middleware

import (
	"net/http"
	"strings"

	"firstline/internal/pkg/supabase"

	"github.com/gin-gonic/gin"
)

// BearerToken extracts the token from a "Bearer <token>" authorization
// header. ok is false when the header is missing or malformed.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}

	return token, true
}

// AuthRequired verifies the bearer token against the identity provider and
// stores the resolved user id and email in the request context.
func AuthRequired(auth *supabase.AuthClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - no token provided"})
			return
		}

		user, err := auth.GetUser(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("userEmail", user.Email)
		c.Next()
	}
}
