package handler

import (
	"log"

	"notetaker/config"
	"notetaker/dto"
	"notetaker/middleware"
	"notetaker/services"
	"notetaker/usecase"
	"notetaker/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

func LoginHandler(c *gin.Context, userService *usecase.UserService, sessionRepo middleware.SessionRepository, cache *services.SessionCache, tokens *services.TokenManager, sessionCfg config.SessionConfig) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid request")
		return
	}

	ctx := c.Request.Context()

	user, err := userService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	if user.TwoFactorEnabled {
		if req.TwoFactorCode == "" {
			utils.TrackAuthAttempt("pending", "2fa_required")
			utils.Success(c, gin.H{
				"requires_2fa": true,
				"message":      "2FA code required",
			})
			return
		}
		if !totp.Validate(req.TwoFactorCode, user.TwoFactorSecret) {
			utils.TrackAuthAttempt("failure", "invalid_2fa")
			utils.Unauthorized(c, "Invalid 2FA code")
			return
		}
		utils.TrackAuthAttempt("success", "2fa")
	}

	// Enforce the active session cap before creating a new one.
	activeCount, err := sessionRepo.CountActiveSessions(ctx, user.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	var notice string
	if activeCount >= sessionCfg.MaxActiveSessions {
		if err := sessionRepo.EndLeastActiveSession(ctx, user.UserID); err != nil {
			writeError(c, err)
			return
		}
		notice = "Logged out of least active session due to session limit"
		log.Printf("ended least active session for user %s", user.UserID)
	}

	token, err := tokens.GenerateAccessToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refreshToken, err := tokens.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	if err := middleware.CreateSession(c, user.UserID, sessionRepo, cache, sessionCfg); err != nil {
		utils.InternalError(c, "Failed to create session")
		return
	}

	utils.TrackAuthAttempt("success", "login")

	response := gin.H{
		"message": "Login successful",
		"token":   token,
		"refresh": refreshToken,
		"user": gin.H{
			"id":       user.UserID,
			"username": user.Username,
			"email":    user.Email,
		},
	}
	if notice != "" {
		response["notice"] = notice
	}

	utils.Success(c, response)
}
