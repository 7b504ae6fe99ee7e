package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
	portssvc "github.com/rovermark/agency_dashboard_app/internal/core/ports/services"
	"github.com/rovermark/agency_dashboard_app/internal/core/services"
	"github.com/rovermark/agency_dashboard_app/pkg/warehouse"
)

// MockWarehouseClient is a mock type for the warehouse.Client interface
type MockWarehouseClient struct {
	mock.Mock
}

func (m *MockWarehouseClient) GetListRecord(ctx context.Context, folderID string, listID string) (*warehouse.Record, error) {
	args := m.Called(ctx, folderID, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Record), args.Error(1)
}

type SyncServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockAccountRepository
	mockClient *MockWarehouseClient
	service    portssvc.SyncSvcFacade
	now        time.Time
	userID     string
}

func (suite *SyncServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockClient = new(MockWarehouseClient)
	suite.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	suite.userID = uuid.NewString()
	suite.service = services.NewSyncService(suite.mockRepo, suite.mockClient,
		services.WithSyncConcurrency(2),
		services.WithSyncClock(func() time.Time { return suite.now }),
	)
}

func (suite *SyncServiceTestSuite) expectTx() {
	suite.mockRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRepo.On("Commit", mock.Anything, nil).Return(nil).Once()
	suite.mockRepo.On("Rollback", mock.Anything, nil).Return(nil).Once()
}

func (suite *SyncServiceTestSuite) TestSyncAccount_SkippedWithoutWarehouseIDs() {
	ctx := context.Background()
	account := storedTestAccount()
	account.FolderID = ""
	account.ListID = ""

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockRepo.On("UpdateSyncStatus", ctx, account.AccountID, domain.SyncSkippedNoIDs, "", suite.now).Return(nil).Once()

	outcome, err := suite.service.SyncAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SyncSkippedNoIDs, outcome.State)
	suite.Empty(outcome.Error)
	suite.mockClient.AssertNotCalled(suite.T(), "GetListRecord", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestSyncAccount_MergedNormalizesAndPreservesManualFields() {
	ctx := context.Background()
	account := storedTestAccount()

	record := &warehouse.Record{
		Name:            "Acme Corporation",
		PointsPurchased: "1,250",
		MRR:             "$5,000",
	}

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockRepo.On("UpdateSyncStatus", ctx, account.AccountID, domain.SyncInFlight, "", suite.now).Return(nil).Once()
	suite.mockClient.On("GetListRecord", ctx, account.FolderID, account.ListID).Return(record, nil).Once()

	suite.expectTx()
	suite.mockRepo.On("FindAccountByIDForUpdate", ctx, nil, account.AccountID).Return(&account, nil).Once()

	var merged domain.Account
	suite.mockRepo.On("UpdateAccountInTx", ctx, nil, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			merged = args.Get(2).(domain.Account)
		}).Return(nil).Once()
	suite.mockRepo.On("UpdateSyncStatus", ctx, account.AccountID, domain.SyncMerged, "", suite.now).Return(nil).Once()

	outcome, err := suite.service.SyncAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SyncMerged, outcome.State)
	suite.Equal(suite.now, outcome.SyncedAt)

	// Display strings are normalized before the merge.
	suite.Equal("Acme Corporation", merged.AccountName)
	suite.True(merged.PointsPurchased.Equal(decimal.NewFromInt(1250)))
	suite.True(merged.MRR.Equal(decimal.NewFromInt(5000)))
	// Fields the record omitted keep their stored values.
	suite.True(merged.PointsDelivered.Equal(account.PointsDelivered))
	suite.Equal(account.BusinessUnit, merged.BusinessUnit)
	// Manually maintained fields are never touched by a sync.
	suite.Equal(account.Industry, merged.Industry)
	suite.True(merged.GrowthInMRR.Equal(account.GrowthInMRR))
	suite.Equal(suite.userID, merged.LastUpdatedBy)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestSyncAccount_UnparseableNumberFallsBackToStored() {
	ctx := context.Background()
	account := storedTestAccount()

	record := &warehouse.Record{PointsPurchased: "not a number"}

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockRepo.On("UpdateSyncStatus", ctx, account.AccountID, domain.SyncInFlight, "", suite.now).Return(nil).Once()
	suite.mockClient.On("GetListRecord", ctx, account.FolderID, account.ListID).Return(record, nil).Once()

	suite.expectTx()
	suite.mockRepo.On("FindAccountByIDForUpdate", ctx, nil, account.AccountID).Return(&account, nil).Once()

	var merged domain.Account
	suite.mockRepo.On("UpdateAccountInTx", ctx, nil, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			merged = args.Get(2).(domain.Account)
		}).Return(nil).Once()
	suite.mockRepo.On("UpdateSyncStatus", ctx, account.AccountID, domain.SyncMerged, "", suite.now).Return(nil).Once()

	_, err := suite.service.SyncAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.True(merged.PointsPurchased.Equal(account.PointsPurchased))
}

func (suite *SyncServiceTestSuite) TestSyncAccount_FetchFailurePreservesStoredData() {
	ctx := context.Background()
	account := storedTestAccount()

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockRepo.On("UpdateSyncStatus", ctx, account.AccountID, domain.SyncInFlight, "", suite.now).Return(nil).Once()
	suite.mockClient.On("GetListRecord", ctx, account.FolderID, account.ListID).
		Return(nil, &warehouse.APIError{StatusCode: 503, Body: "unavailable"}).Once()
	suite.mockRepo.On("UpdateSyncStatus", ctx, account.AccountID, domain.SyncFailedPreserved, mock.AnythingOfType("string"), suite.now).Return(nil).Once()

	outcome, err := suite.service.SyncAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SyncFailedPreserved, outcome.State)
	suite.Contains(outcome.Error, "fetch external record")
	// No write path was reached, stored data stays intact.
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccountInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestSyncAccount_MergeFailureReportedInOutcome() {
	ctx := context.Background()
	account := storedTestAccount()

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	suite.mockRepo.On("UpdateSyncStatus", ctx, account.AccountID, domain.SyncInFlight, "", suite.now).Return(nil).Once()
	suite.mockClient.On("GetListRecord", ctx, account.FolderID, account.ListID).Return(&warehouse.Record{Name: "X"}, nil).Once()

	suite.mockRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRepo.On("Rollback", mock.Anything, nil).Return(nil).Once()
	suite.mockRepo.On("FindAccountByIDForUpdate", ctx, nil, account.AccountID).Return(&account, nil).Once()
	suite.mockRepo.On("UpdateAccountInTx", ctx, nil, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()
	suite.mockRepo.On("UpdateSyncStatus", ctx, account.AccountID, domain.SyncFailedPreserved, mock.AnythingOfType("string"), suite.now).Return(nil).Once()

	outcome, err := suite.service.SyncAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SyncFailedPreserved, outcome.State)
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *SyncServiceTestSuite) TestSyncAllAccounts_IsolatesFailures() {
	ctx := context.Background()

	healthy := storedTestAccount()
	broken := storedTestAccount()
	broken.FolderID = "fld-broken"
	noIDs := storedTestAccount()
	noIDs.FolderID = ""
	noIDs.ListID = ""

	ids := []string{healthy.AccountID, broken.AccountID, noIDs.AccountID}
	suite.mockRepo.On("ListAccountIDs", mock.Anything).Return(ids, nil).Once()

	suite.mockRepo.On("FindAccountByID", mock.Anything, healthy.AccountID).Return(&healthy, nil).Once()
	suite.mockRepo.On("FindAccountByID", mock.Anything, broken.AccountID).Return(&broken, nil).Once()
	suite.mockRepo.On("FindAccountByID", mock.Anything, noIDs.AccountID).Return(&noIDs, nil).Once()

	suite.mockRepo.On("UpdateSyncStatus", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("domain.SyncState"), mock.AnythingOfType("string"), suite.now).Return(nil)

	suite.mockClient.On("GetListRecord", mock.Anything, healthy.FolderID, healthy.ListID).Return(&warehouse.Record{Name: "Healthy"}, nil).Once()
	suite.mockClient.On("GetListRecord", mock.Anything, broken.FolderID, broken.ListID).
		Return(nil, &warehouse.APIError{StatusCode: 500, Body: "boom"}).Once()

	suite.mockRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRepo.On("Commit", mock.Anything, nil).Return(nil).Once()
	suite.mockRepo.On("Rollback", mock.Anything, nil).Return(nil).Once()
	suite.mockRepo.On("FindAccountByIDForUpdate", mock.Anything, nil, healthy.AccountID).Return(&healthy, nil).Once()
	suite.mockRepo.On("UpdateAccountInTx", mock.Anything, nil, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	outcomes, err := suite.service.SyncAllAccounts(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(outcomes, 3)

	// Outcomes line up with the id order regardless of worker scheduling.
	suite.Equal(healthy.AccountID, outcomes[0].AccountID)
	suite.Equal(domain.SyncMerged, outcomes[0].State)
	suite.Equal(broken.AccountID, outcomes[1].AccountID)
	suite.Equal(domain.SyncFailedPreserved, outcomes[1].State)
	suite.NotEmpty(outcomes[1].Error)
	suite.Equal(noIDs.AccountID, outcomes[2].AccountID)
	suite.Equal(domain.SyncSkippedNoIDs, outcomes[2].State)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestSyncAllAccounts_EmptyList() {
	suite.mockRepo.On("ListAccountIDs", mock.Anything).Return([]string{}, nil).Once()

	outcomes, err := suite.service.SyncAllAccounts(context.Background(), suite.userID)

	suite.Require().NoError(err)
	suite.Empty(outcomes)
	suite.mockClient.AssertNotCalled(suite.T(), "GetListRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}
