package handler

import (
	"notetaker/dto"
	"notetaker/middleware"
	"notetaker/usecase"
	"notetaker/utils"

	"github.com/gin-gonic/gin"
)

func GetProfileHandler(c *gin.Context, userService *usecase.UserService) {
	userID := c.GetString("user_id")

	user, err := userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"id":                 user.UserID,
		"username":           user.Username,
		"email":              user.Email,
		"created_at":         user.CreatedAt,
		"two_factor_enabled": user.TwoFactorEnabled,
	})
}

func ChangePasswordHandler(c *gin.Context, userService *usecase.UserService) {
	userID := c.GetString("user_id")

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}

	if err := userService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Password changed successfully"})
}

// DeleteUserHandler removes the account along with its notes and sessions.
func DeleteUserHandler(c *gin.Context, userService *usecase.UserService, notesService *usecase.NoteService, sessionRepo middleware.SessionRepository) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	if err := userService.Delete(ctx, userID); err != nil {
		writeError(c, err)
		return
	}

	if err := notesService.DeleteAllForUser(ctx, userID); err != nil {
		writeError(c, err)
		return
	}

	if err := sessionRepo.DeleteUserSessions(ctx, userID); err != nil {
		writeError(c, err)
		return
	}
	c.SetCookie("session_id", "", -1, "/", "", true, true)

	utils.Success(c, gin.H{"message": "Account deleted"})
}
