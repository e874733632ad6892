package services

import (
	"context"
	"errors"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/auth"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.UserProfile, string, int, error)
	CreateAccount(ctx context.Context, username, password string, volunteerID *int64, isAdmin bool) (*models.UserProfile, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

type authServiceImpl struct {
	userRepo   *repositories.UserProfileRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo *repositories.UserProfileRepository, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies the credentials and returns the profile with a signed
// access token and its lifetime in seconds. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*models.UserProfile, string, int, error) {
	profile, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", 0, apperrors.ErrInvalidCredentials
		}
		return nil, "", 0, err
	}

	if !auth.CheckPassword(profile.PasswordHash, password) {
		logger.Warn().Str("username", username).Msg("Failed login attempt")
		return nil, "", 0, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(profile.ID, profile.Username, profile.IsAdmin)
	if err != nil {
		return nil, "", 0, err
	}
	return profile, token, expiresIn, nil
}

// CreateAccount registers a login, optionally mirroring a volunteer record.
func (s *authServiceImpl) CreateAccount(ctx context.Context, username, password string, volunteerID *int64, isAdmin bool) (*models.UserProfile, error) {
	if len(password) < 8 {
		return nil, apperrors.NewBadRequestError("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		Username:     username,
		PasswordHash: hash,
		VolunteerID:  volunteerID,
		IsAdmin:      isAdmin,
	}
	id, err := s.userRepo.Create(ctx, profile)
	if err != nil {
		return nil, err
	}
	profile.ID = id
	return profile, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	profile, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(profile.PasswordHash, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return apperrors.NewBadRequestError("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}
