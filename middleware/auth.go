package middleware

import (
	"context"
	"strings"

	"notetaker/services"
	"notetaker/utils"

	"github.com/gin-gonic/gin"
)

// TokenBlacklist checks whether a token has been revoked.
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, tokenString string) bool
}

// AuthMiddleware validates the Bearer access token and puts the user id
// into the request context under "user_id".
func AuthMiddleware(tokens *services.TokenManager, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Unauthorized(c, "Missing or invalid token")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if blacklist != nil && blacklist.IsBlacklisted(c.Request.Context(), tokenString) {
			utils.TrackAuthAttempt("failure", "blacklisted_token")
			utils.Unauthorized(c, "Token has been invalidated")
			c.Abort()
			return
		}

		userID, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			utils.TrackAuthAttempt("failure", "invalid_token")
			utils.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("access_token", tokenString)
		c.Next()
	}
}
