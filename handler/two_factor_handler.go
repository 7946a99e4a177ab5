package handler

import (
	"notetaker/dto"
	"notetaker/usecase"
	"notetaker/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

// Enable2FAHandler generates a TOTP secret for the user and returns the
// provisioning URI. The secret stays inactive until verified.
func Enable2FAHandler(c *gin.Context, userService *usecase.UserService) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	user, err := userService.GetProfile(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if user.TwoFactorEnabled {
		utils.Conflict(c, "2FA is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "notetaker",
		AccountName: user.Username,
	})
	if err != nil {
		utils.InternalError(c, "Failed to generate 2FA secret")
		return
	}

	if err := userService.EnableTwoFactor(ctx, userID, key.Secret()); err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"secret":  key.Secret(),
		"qr_code": key.URL(),
		"message": "Scan the QR code and verify a code to finish setup",
	})
}

// Verify2FAHandler validates a code against the pending secret and turns
// two-factor on.
func Verify2FAHandler(c *gin.Context, userService *usecase.UserService) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	var req dto.Verify2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := userService.GetProfile(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if user.TwoFactorSecret == "" {
		utils.BadRequest(c, "2FA setup has not been started")
		return
	}

	if !totp.Validate(req.Code, user.TwoFactorSecret) {
		utils.TrackAuthAttempt("failure", "invalid_2fa")
		utils.Unauthorized(c, "Invalid 2FA code")
		return
	}

	if err := userService.ConfirmTwoFactor(ctx, userID, user.TwoFactorSecret); err != nil {
		writeError(c, err)
		return
	}

	utils.TrackAuthAttempt("success", "2fa_setup")
	utils.Success(c, gin.H{"message": "2FA enabled"})
}
