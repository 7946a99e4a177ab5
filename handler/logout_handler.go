package handler

import (
	"context"
	"time"

	"notetaker/middleware"
	"notetaker/model"
	"notetaker/services"
	"notetaker/utils"

	"github.com/gin-gonic/gin"
)

// TokenRevoker marks issued tokens unusable until their natural expiry.
type TokenRevoker interface {
	Blacklist(ctx context.Context, tokenString string, expiresAt time.Time) error
}

func LogoutHandler(c *gin.Context, sessionRepo middleware.SessionRepository, cache *services.SessionCache, revoker TokenRevoker, tokens *services.TokenManager) {
	ctx := c.Request.Context()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	c.ShouldBindJSON(&req)

	if revoker != nil {
		if accessToken := c.GetString("access_token"); accessToken != "" {
			revoker.Blacklist(ctx, accessToken, tokens.TokenExpiry(accessToken))
		}
		if req.RefreshToken != "" {
			revoker.Blacklist(ctx, req.RefreshToken, tokens.TokenExpiry(req.RefreshToken))
		}
	}

	if sessionID, err := c.Cookie("session_id"); err == nil {
		sessionRepo.EndSession(ctx, sessionID)
		if cache != nil {
			cache.DeleteSession(ctx, sessionID)
		}
		c.SetCookie("session_id", "", -1, "/", "", true, true)
	}

	utils.Success(c, gin.H{"message": "Logged out successfully"})
}

// LogoutAllHandler ends every active session for the user and clears the
// current session cookie.
func LogoutAllHandler(c *gin.Context, sessionRepo middleware.SessionRepository, cache *services.SessionCache) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	if err := sessionRepo.EndAllUserSessions(ctx, userID); err != nil {
		writeError(c, err)
		return
	}

	if sessionID, err := c.Cookie("session_id"); err == nil {
		if cache != nil {
			cache.DeleteSession(ctx, sessionID)
		}
		c.SetCookie("session_id", "", -1, "/", "", true, true)
	}

	utils.Success(c, gin.H{"message": "All sessions ended"})
}

func GetActiveSessionsHandler(c *gin.Context, sessionRepo middleware.SessionRepository) {
	userID := c.GetString("user_id")

	sessions, err := sessionRepo.GetUserActiveSessions(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sessions == nil {
		sessions = []*model.Session{}
	}

	utils.Success(c, sessions)
}

var _ TokenRevoker = (*services.RedisTokenBlacklist)(nil)
