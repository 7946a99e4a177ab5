package usecase

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"notetaker/apperr"
	"notetaker/model"
	"notetaker/utils"
)

const (
	maxTitleLength   = 100
	maxNotesPerUser  = 100
	minSuggestionLen = 20
)

// NoteRepository is the persistence contract the service depends on.
// Satisfied by repository.NoteRepo (MongoDB) and repository.MemoryNoteRepo.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) (string, error)
	GetByID(ctx context.Context, noteID string) (*model.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Note, error)
	Update(ctx context.Context, noteID string, note *model.Note) error
	Delete(ctx context.Context, noteID string) error
	DeleteByUser(ctx context.Context, userID string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// TagSuggester proposes tags for note content. Best-effort: failures are
// never allowed to block a note save.
type TagSuggester interface {
	SuggestTags(ctx context.Context, content string) ([]string, error)
}

// NoteService mediates every note mutation and enforces note-level
// invariants before handing off to the store. Ownership is checked here on
// every read/update/delete path, not at the handlers.
type NoteService struct {
	Repo      NoteRepository
	Suggester TagSuggester
}

func NewNoteService(repo NoteRepository, suggester TagSuggester) *NoteService {
	return &NoteService{Repo: repo, Suggester: suggester}
}

func (svc *NoteService) validateNote(note *model.Note) error {
	note.Title = strings.TrimSpace(note.Title)
	if note.Title == "" {
		return apperr.NewValidation("title", "title is required")
	}
	if utf8.RuneCountInString(note.Title) > maxTitleLength {
		return apperr.NewValidation("title", "title exceeds maximum length")
	}

	if strings.TrimSpace(note.Content) == "" {
		return apperr.NewValidation("content", "content is required")
	}

	note.Tags = normalizeTags(note.Tags)
	return nil
}

// normalizeTags trims entries, drops empties and suppresses duplicates
// case-sensitively while preserving first-seen order.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}

// Create validates and persists a new note owned by note.UserID.
// created_at and updated_at are set to the same instant.
func (svc *NoteService) Create(ctx context.Context, note *model.Note) (string, error) {
	if note.UserID == "" {
		return "", apperr.NewValidation("user_id", "user ID is required")
	}
	if err := svc.validateNote(note); err != nil {
		return "", err
	}

	count, err := svc.Repo.CountByUser(ctx, note.UserID)
	if err != nil {
		return "", err
	}
	if count >= maxNotesPerUser {
		return "", apperr.NewValidation("notes", "user has reached maximum note limit")
	}

	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	id, err := svc.Repo.Create(ctx, note)
	if err != nil {
		return "", err
	}

	utils.TrackNoteOperation("create")
	return id, nil
}

// Get loads a note and verifies the caller owns it.
func (svc *NoteService) Get(ctx context.Context, noteID, userID string) (*model.Note, error) {
	note, err := svc.Repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, apperr.ErrNotOwner
	}
	return note, nil
}

// List returns the caller's notes, most recently updated first.
func (svc *NoteService) List(ctx context.Context, userID string) ([]*model.Note, error) {
	if userID == "" {
		return nil, apperr.NewValidation("user_id", "user ID is required")
	}
	return svc.Repo.ListByUser(ctx, userID)
}

// Update applies new title/content/tags to an owned note. ID, UserID and
// CreatedAt are preserved; UpdatedAt is refreshed to a strictly later instant.
func (svc *NoteService) Update(ctx context.Context, noteID, userID string, updates *model.Note) error {
	existing, err := svc.Get(ctx, noteID, userID)
	if err != nil {
		return err
	}

	if err := svc.validateNote(updates); err != nil {
		return err
	}

	updates.ID = existing.ID
	updates.UserID = existing.UserID
	updates.CreatedAt = existing.CreatedAt
	updates.UpdatedAt = time.Now()

	if err := svc.Repo.Update(ctx, noteID, updates); err != nil {
		return err
	}

	utils.TrackNoteOperation("update")
	return nil
}

// Delete hard-deletes an owned note.
func (svc *NoteService) Delete(ctx context.Context, noteID, userID string) error {
	if _, err := svc.Get(ctx, noteID, userID); err != nil {
		return err
	}
	if err := svc.Repo.Delete(ctx, noteID); err != nil {
		return err
	}

	utils.TrackNoteOperation("delete")
	return nil
}

// DeleteAllForUser removes every note owned by userID. Called when the
// account itself is deleted.
func (svc *NoteService) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := svc.Repo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	utils.TrackNoteOperation("delete_all")
	return nil
}

// MergeGeneratedTags merges suggested tags into an existing tag list:
// existing tags come first, then any suggested tag not already present, in
// the order returned by the suggestion service. Merging the same suggestions
// twice yields the same result as merging once.
func MergeGeneratedTags(existing, suggested []string) []string {
	merged := make([]string, 0, len(existing)+len(suggested))
	seen := make(map[string]struct{}, len(existing))
	for _, tag := range existing {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	for _, tag := range suggested {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		merged = append(merged, trimmed)
	}
	return merged
}

// SuggestTags asks the suggestion service for tags for draft content.
// Content below the minimum length is rejected before calling out.
func (svc *NoteService) SuggestTags(ctx context.Context, content string) ([]string, error) {
	if len(strings.TrimSpace(content)) < minSuggestionLen {
		return nil, apperr.NewValidation("content", "write at least 20 characters to generate tags")
	}
	if svc.Suggester == nil {
		return nil, apperr.ErrSuggestionUnavailable
	}

	tags, err := svc.Suggester.SuggestTags(ctx, content)
	if err != nil {
		utils.TrackSuggestion("failure")
		return nil, err
	}
	if len(tags) == 0 {
		utils.TrackSuggestion("empty")
		return []string{}, nil
	}

	utils.TrackSuggestion("success")
	return normalizeTags(tags), nil
}

// GenerateTags suggests tags for a saved note and merges them into its tag
// list. A failed or empty suggestion leaves the note untouched and is not an
// error for the caller: suggestions are strictly additive and never block.
func (svc *NoteService) GenerateTags(ctx context.Context, noteID, userID string) ([]string, error) {
	note, err := svc.Get(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	suggested, err := svc.SuggestTags(ctx, note.Content)
	if err != nil {
		if apperr.IsValidation(err) {
			return nil, err
		}
		log.Printf("tag suggestion failed for note %s: %v", noteID, err)
		return note.Tags, nil
	}
	if len(suggested) == 0 {
		return note.Tags, nil
	}

	merged := MergeGeneratedTags(note.Tags, suggested)
	updates := &model.Note{
		Title:   note.Title,
		Content: note.Content,
		Tags:    merged,
	}
	if err := svc.Update(ctx, noteID, userID, updates); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("generate_tags")
	return merged, nil
}
