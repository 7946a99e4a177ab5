package usecase

import (
	"context"
	"time"

	"notetaker/apperr"
	"notetaker/model"
	"notetaker/services"
	"notetaker/utils"

	"github.com/google/uuid"
)

// UserRepository is the persistence contract for user accounts.
// Satisfied by repository.UserRepo (MongoDB) and repository.MemoryUserRepo.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, userID string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID, hashedPassword string) error
	SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error
	Delete(ctx context.Context, userID string) error
}

type UserService struct {
	Repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{Repo: repo}
}

// Register creates a new account with a hashed password and a fresh user id.
func (svc *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	existing, err := svc.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrUsernameTaken
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return nil, apperr.NewValidation("password", err.Error())
	}

	user := &model.User{
		UserID:    uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  hash,
		CreatedAt: time.Now(),
	}
	if err := svc.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies username/password and returns the matching user.
func (svc *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := svc.Repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		utils.TrackAuthAttempt("failure", "user_not_found")
		return nil, apperr.ErrInvalidCredentials
	}

	match, err := services.VerifyPassword(user.Password, password)
	if err != nil || !match {
		utils.TrackAuthAttempt("failure", "invalid_password")
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

func (svc *UserService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	return svc.Repo.FindByID(ctx, userID)
}

// ChangePassword verifies the old password before storing a new hash.
func (svc *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := svc.Repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := services.VerifyPassword(user.Password, oldPassword)
	if err != nil || !match {
		return apperr.ErrInvalidCredentials
	}

	hash, err := services.HashPassword(newPassword)
	if err != nil {
		return apperr.NewValidation("password", err.Error())
	}
	return svc.Repo.UpdatePassword(ctx, userID, hash)
}

// EnableTwoFactor stores a pending TOTP secret; it stays disabled until the
// user confirms a valid code.
func (svc *UserService) EnableTwoFactor(ctx context.Context, userID, secret string) error {
	return svc.Repo.SetTwoFactor(ctx, userID, secret, false)
}

// ConfirmTwoFactor flips the enabled flag once a code has been verified.
func (svc *UserService) ConfirmTwoFactor(ctx context.Context, userID, secret string) error {
	return svc.Repo.SetTwoFactor(ctx, userID, secret, true)
}

func (svc *UserService) Delete(ctx context.Context, userID string) error {
	return svc.Repo.Delete(ctx, userID)
}
