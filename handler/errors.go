package handler

import (
	"errors"

	"notetaker/apperr"
	"notetaker/utils"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto the HTTP response envelope.
func writeError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, apperr.ErrNoteNotFound),
		errors.Is(err, apperr.ErrUserNotFound),
		errors.Is(err, apperr.ErrSessionNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, apperr.ErrNotOwner):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, apperr.ErrInvalidCredentials):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, apperr.ErrUsernameTaken):
		utils.Conflict(c, err.Error())
	case errors.Is(err, apperr.ErrStoreUnavailable),
		errors.Is(err, apperr.ErrSuggestionUnavailable):
		utils.ServiceUnavailable(c, err.Error())
	default:
		utils.InternalError(c, "internal error")
	}
}
