package usecase

import (
	"context"
	"testing"

	"notetaker/apperr"
	"notetaker/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	svc := NewUserService(repository.NewMemoryUserRepo())
	ctx := context.Background()

	t.Run("creates an account with a hashed password", func(t *testing.T) {
		user, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2!")
		require.NoError(t, err)
		assert.NotEmpty(t, user.UserID)
		assert.Equal(t, "alice", user.Username)
		assert.NotEqual(t, "hunter2!", user.Password)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "other@example.com", "hunter2!")
		assert.ErrorIs(t, err, apperr.ErrUsernameTaken)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		_, err := svc.Register(ctx, "bob", "bob@example.com", "short")
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(repository.NewMemoryUserRepo())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "carol", "carol@example.com", "s3cret!pass")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "carol", "s3cret!pass")
		require.NoError(t, err)
		assert.Equal(t, registered.UserID, user.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "carol", "wrong!pass1")
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "s3cret!pass")
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	svc := NewUserService(repository.NewMemoryUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "dave", "dave@example.com", "0ld!pass")
	require.NoError(t, err)

	t.Run("requires the old password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.UserID, "wrong!1", "n3w!pass")
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("new password takes effect", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, user.UserID, "0ld!pass", "n3w!pass"))

		_, err := svc.Authenticate(ctx, "dave", "0ld!pass")
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

		_, err = svc.Authenticate(ctx, "dave", "n3w!pass")
		assert.NoError(t, err)
	})

	t.Run("rejects a weak replacement", func(t *testing.T) {
		err := svc.ChangePassword(ctx, user.UserID, "n3w!pass", "weak")
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestTwoFactorLifecycle(t *testing.T) {
	svc := NewUserService(repository.NewMemoryUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "erin", "erin@example.com", "t0tp!pass")
	require.NoError(t, err)

	require.NoError(t, svc.EnableTwoFactor(ctx, user.UserID, "SECRET123"))
	pending, err := svc.GetProfile(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "SECRET123", pending.TwoFactorSecret)
	assert.False(t, pending.TwoFactorEnabled)

	require.NoError(t, svc.ConfirmTwoFactor(ctx, user.UserID, "SECRET123"))
	confirmed, err := svc.GetProfile(ctx, user.UserID)
	require.NoError(t, err)
	assert.True(t, confirmed.TwoFactorEnabled)
}

func TestDeleteUser(t *testing.T) {
	svc := NewUserService(repository.NewMemoryUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "frank", "frank@example.com", "g0ne!pass")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.UserID))

	_, err = svc.GetProfile(ctx, user.UserID)
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}
