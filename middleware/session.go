package middleware

import (
	"context"
	"fmt"
	"log"
	"time"

	"notetaker/config"
	"notetaker/model"
	"notetaker/services"
	"notetaker/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionRepository is the contract the session middleware and login flow
// need from the session store.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	UpdateSession(ctx context.Context, session *model.Session) error
	EndSession(ctx context.Context, sessionID string) error
	GetUserActiveSessions(ctx context.Context, userID string) ([]*model.Session, error)
	CountActiveSessions(ctx context.Context, userID string) (int, error)
	EndLeastActiveSession(ctx context.Context, userID string) error
	EndAllUserSessions(ctx context.Context, userID string) error
	DeleteUserSessions(ctx context.Context, userID string) error
}

// SessionMiddleware refreshes session activity for requests carrying a
// session cookie. The cache is consulted before the store; a cache failure
// falls through to the store.
func SessionMiddleware(sessionRepo SessionRepository, cache *services.SessionCache, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		var session *model.Session
		if cache != nil {
			session, _ = cache.GetSession(ctx, sessionID)
		}
		if session == nil {
			session, err = sessionRepo.GetSession(ctx, sessionID)
			if err != nil || session == nil {
				clearSessionCookie(c)
				c.Next()
				return
			}
		}

		if !session.IsActive {
			clearSessionCookie(c)
			c.Next()
			return
		}

		if time.Since(session.LastActivityAt) > cfg.InactivityTimeout {
			session.IsActive = false
			sessionRepo.UpdateSession(ctx, session)
			if cache != nil {
				cache.DeleteSession(ctx, sessionID)
			}
			clearSessionCookie(c)
			c.Next()
			return
		}

		session.LastActivityAt = time.Now()
		if err := sessionRepo.UpdateSession(ctx, session); err != nil {
			log.Printf("failed to update session activity: %v", err)
		}
		if cache != nil {
			cache.SetSession(ctx, session)
		}

		c.Set("session", session)
		c.Next()
	}
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie("session_id", "", -1, "/", "", true, true)
}

// CreateSession records a new server-side session for a signed-in user and
// sets the session cookie.
func CreateSession(c *gin.Context, userID string, sessionRepo SessionRepository, cache *services.SessionCache, cfg config.SessionConfig) error {
	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)

	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		DisplayName:    utils.GenerateSessionName(userAgent),
		DeviceInfo:     fmt.Sprintf("%s on %s (%s)", browser, os, device),
		IPAddress:      c.ClientIP(),
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(cfg.Duration),
		LastActivityAt: time.Now(),
		IsActive:       true,
	}

	ctx := c.Request.Context()
	if err := sessionRepo.CreateSession(ctx, session); err != nil {
		return err
	}
	if cache != nil {
		if err := cache.SetSession(ctx, session); err != nil {
			log.Printf("failed to cache session: %v", err)
		}
	}

	c.SetCookie(
		"session_id",
		session.SessionID,
		int(cfg.Duration.Seconds()),
		"/",
		"",
		true,
		true,
	)
	return nil
}
