package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"notetaker/apperr"
	"notetaker/model"
	"notetaker/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSuggester returns canned tags or a canned error.
type stubSuggester struct {
	tags []string
	err  error
}

func (s *stubSuggester) SuggestTags(ctx context.Context, content string) ([]string, error) {
	return s.tags, s.err
}

func newTestService(suggester TagSuggester) *NoteService {
	return NewNoteService(repository.NewMemoryNoteRepo(), suggester)
}

func TestCreateNote(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	t.Run("sets equal timestamps on create", func(t *testing.T) {
		note := &model.Note{UserID: "user-1", Title: "Groceries", Content: "milk, eggs, bread"}
		id, err := svc.Create(ctx, note)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		saved, err := svc.Get(ctx, id, "user-1")
		require.NoError(t, err)
		assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
		assert.Equal(t, "user-1", saved.UserID)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.Note{UserID: "user-1", Title: "", Content: "x"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects whitespace-only title", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.Note{UserID: "user-1", Title: "   ", Content: "x"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects title over 100 characters", func(t *testing.T) {
		long := make([]byte, 101)
		for i := range long {
			long[i] = 'a'
		}
		_, err := svc.Create(ctx, &model.Note{UserID: "user-1", Title: string(long), Content: "x"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("accepts title of exactly 100 characters", func(t *testing.T) {
		exact := make([]byte, 100)
		for i := range exact {
			exact[i] = 'a'
		}
		_, err := svc.Create(ctx, &model.Note{UserID: "user-1", Title: string(exact), Content: "x"})
		assert.NoError(t, err)
	})

	t.Run("title limit counts characters not bytes", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.Note{UserID: "user-1", Title: strings.Repeat("日", 100), Content: "x"})
		assert.NoError(t, err)

		_, err = svc.Create(ctx, &model.Note{UserID: "user-1", Title: strings.Repeat("日", 101), Content: "x"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.Note{UserID: "user-1", Title: "ok", Content: "  "})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects missing user id", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.Note{Title: "ok", Content: "x"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("deduplicates tags preserving order", func(t *testing.T) {
		note := &model.Note{
			UserID:  "user-2",
			Title:   "tagged",
			Content: "body",
			Tags:    []string{"work", "personal", "work", " personal ", ""},
		}
		id, err := svc.Create(ctx, note)
		require.NoError(t, err)

		saved, err := svc.Get(ctx, id, "user-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"work", "personal"}, saved.Tags)
	})

	t.Run("tags are case-sensitive", func(t *testing.T) {
		note := &model.Note{
			UserID:  "user-2",
			Title:   "cased",
			Content: "body",
			Tags:    []string{"Work", "work"},
		}
		id, err := svc.Create(ctx, note)
		require.NoError(t, err)

		saved, err := svc.Get(ctx, id, "user-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"Work", "work"}, saved.Tags)
	})
}

func TestNoteCap(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_, err := svc.Create(ctx, &model.Note{UserID: "hoarder", Title: fmt.Sprintf("note %d", i), Content: "x"})
		require.NoError(t, err)
	}

	t.Run("the 101st note is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.Note{UserID: "hoarder", Title: "one too many", Content: "x"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("other users are unaffected", func(t *testing.T) {
		_, err := svc.Create(ctx, &model.Note{UserID: "minimalist", Title: "first", Content: "x"})
		assert.NoError(t, err)
	})

	t.Run("deleting frees a slot", func(t *testing.T) {
		notes, err := svc.List(ctx, "hoarder")
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, notes[0].ID, "hoarder"))

		_, err = svc.Create(ctx, &model.Note{UserID: "hoarder", Title: "fits again", Content: "x"})
		assert.NoError(t, err)
	})
}

func TestGetNoteOwnership(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, &model.Note{UserID: "owner", Title: "mine", Content: "x"})
	require.NoError(t, err)

	t.Run("owner can read", func(t *testing.T) {
		note, err := svc.Get(ctx, id, "owner")
		require.NoError(t, err)
		assert.Equal(t, "mine", note.Title)
	})

	t.Run("other user is rejected", func(t *testing.T) {
		_, err := svc.Get(ctx, id, "intruder")
		assert.ErrorIs(t, err, apperr.ErrNotOwner)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, "missing", "owner")
		assert.ErrorIs(t, err, apperr.ErrNoteNotFound)
	})
}

func TestListNotes(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, &model.Note{UserID: "lister", Title: title, Content: "x"})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	_, err := svc.Create(ctx, &model.Note{UserID: "other", Title: "not yours", Content: "x"})
	require.NoError(t, err)

	notes, err := svc.List(ctx, "lister")
	require.NoError(t, err)
	require.Len(t, notes, 3)

	// Most recently updated first, and never another user's note.
	assert.Equal(t, "third", notes[0].Title)
	assert.Equal(t, "second", notes[1].Title)
	assert.Equal(t, "first", notes[2].Title)
	for _, note := range notes {
		assert.Equal(t, "lister", note.UserID)
	}
}

func TestUpdateNote(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, &model.Note{UserID: "editor", Title: "before", Content: "old"})
	require.NoError(t, err)
	original, err := svc.Get(ctx, id, "editor")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	t.Run("preserves identity and bumps updated_at", func(t *testing.T) {
		err := svc.Update(ctx, id, "editor", &model.Note{Title: "after", Content: "new"})
		require.NoError(t, err)

		updated, err := svc.Get(ctx, id, "editor")
		require.NoError(t, err)
		assert.Equal(t, original.ID, updated.ID)
		assert.Equal(t, original.UserID, updated.UserID)
		assert.Equal(t, original.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))
		assert.Equal(t, "after", updated.Title)
		assert.Equal(t, "new", updated.Content)
	})

	t.Run("sequential updates strictly advance updated_at", func(t *testing.T) {
		require.NoError(t, svc.Update(ctx, id, "editor", &model.Note{Title: "one", Content: "x"}))
		first, err := svc.Get(ctx, id, "editor")
		require.NoError(t, err)

		time.Sleep(2 * time.Millisecond)
		require.NoError(t, svc.Update(ctx, id, "editor", &model.Note{Title: "two", Content: "x"}))
		second, err := svc.Get(ctx, id, "editor")
		require.NoError(t, err)

		assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		err := svc.Update(ctx, id, "intruder", &model.Note{Title: "hax", Content: "x"})
		assert.ErrorIs(t, err, apperr.ErrNotOwner)
	})

	t.Run("rejects invalid updates", func(t *testing.T) {
		err := svc.Update(ctx, id, "editor", &model.Note{Title: "", Content: "x"})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestDeleteNote(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, &model.Note{UserID: "owner", Title: "doomed", Content: "x"})
	require.NoError(t, err)

	t.Run("rejects non-owner", func(t *testing.T) {
		err := svc.Delete(ctx, id, "intruder")
		assert.ErrorIs(t, err, apperr.ErrNotOwner)
	})

	t.Run("delete then read yields not found", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, id, "owner"))

		_, err := svc.Get(ctx, id, "owner")
		assert.ErrorIs(t, err, apperr.ErrNoteNotFound)

		notes, err := svc.List(ctx, "owner")
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("deleting again yields not found", func(t *testing.T) {
		err := svc.Delete(ctx, id, "owner")
		assert.ErrorIs(t, err, apperr.ErrNoteNotFound)
	})
}

func TestDeleteAllForUser(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.Create(ctx, &model.Note{UserID: "leaver", Title: title, Content: "x"})
		require.NoError(t, err)
	}
	keptID, err := svc.Create(ctx, &model.Note{UserID: "stayer", Title: "kept", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAllForUser(ctx, "leaver"))

	notes, err := svc.List(ctx, "leaver")
	require.NoError(t, err)
	assert.Empty(t, notes)

	_, err = svc.Get(ctx, keptID, "stayer")
	assert.NoError(t, err)
}

func TestMergeGeneratedTags(t *testing.T) {
	t.Run("existing first then new suggestions in order", func(t *testing.T) {
		merged := MergeGeneratedTags([]string{"work"}, []string{"shopping", "work", "food"})
		assert.Equal(t, []string{"work", "shopping", "food"}, merged)
	})

	t.Run("empty existing", func(t *testing.T) {
		merged := MergeGeneratedTags(nil, []string{"shopping", "food"})
		assert.Equal(t, []string{"shopping", "food"}, merged)
	})

	t.Run("idempotent", func(t *testing.T) {
		once := MergeGeneratedTags([]string{"a"}, []string{"b", "c"})
		twice := MergeGeneratedTags(once, []string{"b", "c"})
		assert.Equal(t, once, twice)
	})

	t.Run("no suggestions is a no-op", func(t *testing.T) {
		merged := MergeGeneratedTags([]string{"a", "b"}, nil)
		assert.Equal(t, []string{"a", "b"}, merged)
	})
}

func TestSuggestTags(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects short content", func(t *testing.T) {
		svc := newTestService(&stubSuggester{tags: []string{"x"}})
		_, err := svc.SuggestTags(ctx, "too short")
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("returns normalized suggestions", func(t *testing.T) {
		svc := newTestService(&stubSuggester{tags: []string{" shopping ", "food", "shopping"}})
		tags, err := svc.SuggestTags(ctx, "milk, eggs, bread and some more items")
		require.NoError(t, err)
		assert.Equal(t, []string{"shopping", "food"}, tags)
	})

	t.Run("surfaces adapter failure", func(t *testing.T) {
		svc := newTestService(&stubSuggester{err: apperr.ErrSuggestionUnavailable})
		_, err := svc.SuggestTags(ctx, "milk, eggs, bread and some more items")
		assert.ErrorIs(t, err, apperr.ErrSuggestionUnavailable)
	})

	t.Run("unavailable without an adapter", func(t *testing.T) {
		svc := newTestService(nil)
		_, err := svc.SuggestTags(ctx, "milk, eggs, bread and some more items")
		assert.ErrorIs(t, err, apperr.ErrSuggestionUnavailable)
	})
}

func TestGenerateTags(t *testing.T) {
	ctx := context.Background()

	t.Run("merges and persists suggestions", func(t *testing.T) {
		svc := newTestService(&stubSuggester{tags: []string{"shopping", "food"}})
		id, err := svc.Create(ctx, &model.Note{
			UserID:  "user-1",
			Title:   "Groceries",
			Content: "milk, eggs, bread and some more items",
		})
		require.NoError(t, err)

		tags, err := svc.GenerateTags(ctx, id, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"shopping", "food"}, tags)

		saved, err := svc.Get(ctx, id, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"shopping", "food"}, saved.Tags)
		assert.True(t, saved.UpdatedAt.After(saved.CreatedAt) || saved.UpdatedAt.Equal(saved.CreatedAt))
	})

	t.Run("a failing adapter leaves the note untouched", func(t *testing.T) {
		svc := newTestService(&stubSuggester{err: errors.New("model timeout")})
		id, err := svc.Create(ctx, &model.Note{
			UserID:  "user-1",
			Title:   "Groceries",
			Content: "milk, eggs, bread and some more items",
			Tags:    []string{"manual"},
		})
		require.NoError(t, err)

		tags, err := svc.GenerateTags(ctx, id, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"manual"}, tags)

		saved, err := svc.Get(ctx, id, "user-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"manual"}, saved.Tags)
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		svc := newTestService(&stubSuggester{tags: []string{"x"}})
		id, err := svc.Create(ctx, &model.Note{
			UserID:  "user-1",
			Title:   "private",
			Content: "milk, eggs, bread and some more items",
		})
		require.NoError(t, err)

		_, err = svc.GenerateTags(ctx, id, "intruder")
		assert.ErrorIs(t, err, apperr.ErrNotOwner)
	})
}
