package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rovermark/agency_dashboard_app/internal/apperrors"
	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
	portsrepo "github.com/rovermark/agency_dashboard_app/internal/core/ports/repositories"
	portssvc "github.com/rovermark/agency_dashboard_app/internal/core/ports/services"
	"github.com/rovermark/agency_dashboard_app/internal/dto"
	"github.com/rovermark/agency_dashboard_app/internal/utils"
)

const (
	authProviderLocal  = "local"
	authProviderGoogle = "google"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements the UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()

	user := domain.User{
		UserID:       newUserID,
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		AuthProvider: authProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID, // Self-registration
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save new user", slog.String("username", req.Username))
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindUserByUsername(ctx, username)
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.userRepo.FindUsers(ctx, limit, offset)
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshTokenHash = refreshTokenHash
	user.RefreshTokenExpiryTime = &refreshTokenExpiryTime
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID
	return s.userRepo.UpdateUser(ctx, *user)
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshTokenHash = ""
	user.RefreshTokenExpiryTime = nil
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID
	return s.userRepo.UpdateUser(ctx, *user)
}

func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if userID != requestingUserID {
		return apperrors.ErrUnauthorized
	}
	return s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), requestingUserID)
}

// AuthenticateUser validates a username/password pair. It returns
// ErrUnauthorized for both unknown users and wrong passwords so callers can't
// distinguish the two.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// FindOrCreateOAuthUser looks a user up by verified email, creating a new
// Google-backed user on first login.
func (s *userService) FindOrCreateOAuthUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	if info.Email == "" || !info.EmailVerified {
		return nil, fmt.Errorf("%w: google account email not verified", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByUsername(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	newUserID := uuid.NewString()
	newUser := domain.User{
		UserID:       newUserID,
		Name:         info.Name,
		Username:     info.Email,
		Email:        info.Email,
		AuthProvider: authProviderGoogle,
		ProviderID:   info.Sub,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		s.LogError(ctx, err, "Failed to create user from google login", slog.String("email", info.Email))
		return nil, err
	}
	s.LogInfo(ctx, "Created user from google login", slog.String("user_id", newUserID))
	return &newUser, nil
}
