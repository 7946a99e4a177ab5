package handler

import (
	"notetaker/dto"
	"notetaker/model"
	"notetaker/usecase"
	"notetaker/utils"

	"github.com/gin-gonic/gin"
)

func GetUserNotesHandler(c *gin.Context, notesService *usecase.NoteService) {
	userID := c.GetString("user_id")

	notes, err := notesService.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponses(notes))
}

func GetNoteHandler(c *gin.Context, notesService *usecase.NoteService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	note, err := notesService.Get(c.Request.Context(), noteID, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

func CreateNoteHandler(c *gin.Context, notesService *usecase.NoteService) {
	var note model.Note
	if err := c.ShouldBindJSON(&note); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note.UserID = c.GetString("user_id")
	noteID, err := notesService.Create(c.Request.Context(), &note)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Created(c, gin.H{
		"message": "Note created successfully",
		"note_id": noteID,
	})
}

func UpdateNoteHandler(c *gin.Context, notesService *usecase.NoteService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	var updates model.Note
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	if err := notesService.Update(c.Request.Context(), noteID, userID, &updates); err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Note updated successfully"})
}

func DeleteNoteHandler(c *gin.Context, notesService *usecase.NoteService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	if err := notesService.Delete(c.Request.Context(), noteID, userID); err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Note deleted successfully"})
}

// SuggestTagsHandler proposes tags for draft content that has not been
// saved yet. The note itself is untouched.
func SuggestTagsHandler(c *gin.Context, notesService *usecase.NoteService) {
	var req dto.SuggestTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	tags, err := notesService.SuggestTags(c.Request.Context(), req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, dto.SuggestTagsResponse{Tags: tags})
}

// GenerateNoteTagsHandler suggests tags for a saved note, merges them into
// its tag list and persists the result.
func GenerateNoteTagsHandler(c *gin.Context, notesService *usecase.NoteService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	tags, err := notesService.GenerateTags(c.Request.Context(), noteID, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, dto.SuggestTagsResponse{Tags: tags})
}
