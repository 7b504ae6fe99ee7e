package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/rovermark/agency_dashboard_app/internal/apperrors"
	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
	portssvc "github.com/rovermark/agency_dashboard_app/internal/core/ports/services"
	"github.com/rovermark/agency_dashboard_app/internal/core/services"
	"github.com/rovermark/agency_dashboard_app/internal/dto"
	"github.com/rovermark/agency_dashboard_app/internal/utils"
)

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Name:     "Jordan Smith",
		Username: "jsmith",
		Email:    "jordan@example.com",
		Password: "correct-horse",
	}

	var saved domain.User
	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal("jsmith", user.Username)
	suite.NotEqual("correct-horse", saved.PasswordHash)
	suite.True(utils.CheckPasswordHash("correct-horse", saved.PasswordHash))
	suite.Equal(user.UserID, saved.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Name: "Dup", Username: "dup", Password: "password123"}

	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("hunter2hunter2")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Username: "jsmith", PasswordHash: hash}
	suite.mockRepo.On("FindUserByUsername", ctx, "jsmith").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "jsmith", "hunter2hunter2")

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("hunter2hunter2")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Username: "jsmith", PasswordHash: hash}
	suite.mockRepo.On("FindUserByUsername", ctx, "jsmith").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "jsmith", "wrong")

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUserMapsToUnauthorized() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(ctx, "ghost", "whatever")

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_OAuthOnlyUserHasNoPassword() {
	ctx := context.Background()

	stored := &domain.User{UserID: uuid.NewString(), Username: "oauth@example.com", PasswordHash: ""}
	suite.mockRepo.On("FindUserByUsername", ctx, "oauth@example.com").Return(stored, nil).Once()

	_, err := suite.service.AuthenticateUser(ctx, "oauth@example.com", "anything")

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestUpdateUser_OnlySelf() {
	ctx := context.Background()

	user, err := suite.service.UpdateUser(ctx, "user-a", dto.UpdateUserRequest{}, "user-b")

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_OnlySelf() {
	ctx := context.Background()

	err := suite.service.DeleteUser(ctx, "user-a", "user-b")

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockRepo.AssertNotCalled(suite.T(), "MarkUserDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_ExistingUser() {
	ctx := context.Background()
	stored := &domain.User{UserID: uuid.NewString(), Username: "taylor@example.com"}

	suite.mockRepo.On("FindUserByUsername", ctx, "taylor@example.com").Return(stored, nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, domain.GoogleUserInfo{
		Sub:           "google-sub-1",
		Email:         "taylor@example.com",
		EmailVerified: true,
		Name:          "Taylor",
	})

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_CreatesOnFirstLogin() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByUsername", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.User
	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).Return(nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, domain.GoogleUserInfo{
		Sub:           "google-sub-2",
		Email:         "new@example.com",
		EmailVerified: true,
		Name:          "New Person",
	})

	suite.Require().NoError(err)
	suite.Equal("new@example.com", user.Username)
	suite.Equal("google-sub-2", saved.ProviderID)
	suite.Empty(saved.PasswordHash)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_RejectsUnverifiedEmail() {
	ctx := context.Background()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, domain.GoogleUserInfo{
		Sub:   "google-sub-3",
		Email: "sketchy@example.com",
	})

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.Nil(user)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindUserByUsername", mock.Anything, mock.Anything)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
