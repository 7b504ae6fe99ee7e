package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/rovermark/agency_dashboard_app/internal/apperrors"
	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
	portssvc "github.com/rovermark/agency_dashboard_app/internal/core/ports/services"
	"github.com/rovermark/agency_dashboard_app/internal/dto"
	"github.com/rovermark/agency_dashboard_app/internal/handlers"
	"github.com/rovermark/agency_dashboard_app/internal/middleware"
)

// --- Mock SyncService ---
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) SyncAccount(ctx context.Context, accountID string, userID string) (*domain.SyncOutcome, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncOutcome), args.Error(1)
}
func (m *MockSyncService) SyncAllAccounts(ctx context.Context, userID string) ([]domain.SyncOutcome, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SyncOutcome), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.SyncSvcFacade = (*MockSyncService)(nil)

// --- Test Suite ---
type SyncHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockSyncService *MockSyncService
	jwtSecret       string
}

func (suite *SyncHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "dashboard-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *SyncHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockSyncService = new(MockSyncService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterSyncRoutes(v1, suite.mockSyncService)
}

func (suite *SyncHandlerTestSuite) post(url string, userID string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *SyncHandlerTestSuite) TestSyncAccount_Merged() {
	accountID := uuid.NewString()
	userID := uuid.NewString()
	syncedAt := time.Now().UTC().Truncate(time.Second)

	outcome := &domain.SyncOutcome{
		AccountID: accountID,
		State:     domain.SyncMerged,
		SyncedAt:  syncedAt,
	}
	suite.mockSyncService.On("SyncAccount", mock.Anything, accountID, userID).Return(outcome, nil).Once()

	w := suite.post("/api/v1/accounts/"+accountID+"/sync", userID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.SyncOutcomeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accountID, resp.AccountID)
	suite.Equal(domain.SyncMerged, resp.State)
	suite.Empty(resp.Error)
	suite.mockSyncService.AssertExpectations(suite.T())
}

func (suite *SyncHandlerTestSuite) TestSyncAccount_FailedPreservedStillOK() {
	accountID := uuid.NewString()
	userID := uuid.NewString()

	outcome := &domain.SyncOutcome{
		AccountID: accountID,
		State:     domain.SyncFailedPreserved,
		Error:     "fetch external record: warehouse returned 503",
		SyncedAt:  time.Now(),
	}
	suite.mockSyncService.On("SyncAccount", mock.Anything, accountID, userID).Return(outcome, nil).Once()

	w := suite.post("/api/v1/accounts/"+accountID+"/sync", userID)

	// A preserved failure is a successful sync attempt from HTTP's point of view.
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.SyncOutcomeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.SyncFailedPreserved, resp.State)
	suite.Contains(resp.Error, "503")
}

func (suite *SyncHandlerTestSuite) TestSyncAccount_NotFound() {
	accountID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockSyncService.On("SyncAccount", mock.Anything, accountID, userID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.post("/api/v1/accounts/"+accountID+"/sync", userID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *SyncHandlerTestSuite) TestSyncAllAccounts_TalliesOutcomes() {
	userID := uuid.NewString()
	now := time.Now()

	outcomes := []domain.SyncOutcome{
		{AccountID: uuid.NewString(), State: domain.SyncMerged, SyncedAt: now},
		{AccountID: uuid.NewString(), State: domain.SyncMerged, SyncedAt: now},
		{AccountID: uuid.NewString(), State: domain.SyncSkippedNoIDs, SyncedAt: now},
		{AccountID: uuid.NewString(), State: domain.SyncFailedPreserved, Error: "boom", SyncedAt: now},
	}
	suite.mockSyncService.On("SyncAllAccounts", mock.Anything, userID).Return(outcomes, nil).Once()

	w := suite.post("/api/v1/accounts/sync", userID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.BatchSyncResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(4, resp.Total)
	suite.Equal(2, resp.Merged)
	suite.Equal(1, resp.Skipped)
	suite.Equal(1, resp.Failed)
	suite.Len(resp.Outcomes, 4)
	suite.mockSyncService.AssertExpectations(suite.T())
}

func (suite *SyncHandlerTestSuite) TestSyncAllAccounts_Unauthenticated() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts/sync", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSyncService.AssertNotCalled(suite.T(), "SyncAllAccounts", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestSyncHandler(t *testing.T) {
	suite.Run(t, new(SyncHandlerTestSuite))
}
