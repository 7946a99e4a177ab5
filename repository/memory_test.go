package repository

import (
	"context"
	"testing"
	"time"

	"notetaker/apperr"
	"notetaker/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryNoteRepoContract(t *testing.T) {
	repo := NewMemoryNoteRepo()
	ctx := context.Background()

	now := time.Now()
	id, err := repo.Create(ctx, &model.Note{
		UserID:    "u1",
		Title:     "first",
		Content:   "x",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	t.Run("list orders by updated_at descending", func(t *testing.T) {
		later := now.Add(time.Second)
		_, err := repo.Create(ctx, &model.Note{
			UserID:    "u1",
			Title:     "second",
			Content:   "x",
			CreatedAt: later,
			UpdatedAt: later,
		})
		require.NoError(t, err)

		notes, err := repo.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "second", notes[0].Title)
		assert.Equal(t, "first", notes[1].Title)
	})

	t.Run("update of a missing note reports not found", func(t *testing.T) {
		err := repo.Update(ctx, "nope", &model.Note{Title: "x", Content: "y"})
		assert.ErrorIs(t, err, apperr.ErrNoteNotFound)
	})

	t.Run("count scopes to the user", func(t *testing.T) {
		count, err := repo.CountByUser(ctx, "u1")
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)

		count, err = repo.CountByUser(ctx, "u2")
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	})

	t.Run("delete removes the note", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, id))
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, apperr.ErrNoteNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, id), apperr.ErrNoteNotFound)
	})
}

func TestMemorySessionRepoContract(t *testing.T) {
	repo := NewMemorySessionRepo()
	ctx := context.Background()

	now := time.Now()
	makeSession := func(id string, lastActivity time.Time) *model.Session {
		return &model.Session{
			SessionID:      id,
			UserID:         "u1",
			CreatedAt:      now,
			ExpiresAt:      now.Add(time.Hour),
			LastActivityAt: lastActivity,
			IsActive:       true,
		}
	}

	require.NoError(t, repo.CreateSession(ctx, makeSession("s1", now.Add(-2*time.Minute))))
	require.NoError(t, repo.CreateSession(ctx, makeSession("s2", now.Add(-time.Minute))))
	require.NoError(t, repo.CreateSession(ctx, makeSession("s3", now)))

	t.Run("active sessions sorted by recent activity", func(t *testing.T) {
		sessions, err := repo.GetUserActiveSessions(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, "s3", sessions[0].SessionID)
		assert.Equal(t, "s1", sessions[2].SessionID)
	})

	t.Run("ending the least active session drops the oldest", func(t *testing.T) {
		require.NoError(t, repo.EndLeastActiveSession(ctx, "u1"))

		sessions, err := repo.GetUserActiveSessions(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		for _, s := range sessions {
			assert.NotEqual(t, "s1", s.SessionID)
		}
	})

	t.Run("end all deactivates every session", func(t *testing.T) {
		require.NoError(t, repo.EndAllUserSessions(ctx, "u1"))

		count, err := repo.CountActiveSessions(ctx, "u1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("delete removes them entirely", func(t *testing.T) {
		require.NoError(t, repo.DeleteUserSessions(ctx, "u1"))
		_, err := repo.GetSession(ctx, "s1")
		assert.ErrorIs(t, err, apperr.ErrSessionNotFound)
	})
}
