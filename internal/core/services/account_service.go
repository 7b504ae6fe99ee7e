package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
	portsrepo "github.com/rovermark/agency_dashboard_app/internal/core/ports/repositories"
	portssvc "github.com/rovermark/agency_dashboard_app/internal/core/ports/services"
	"github.com/rovermark/agency_dashboard_app/internal/dto"
	"github.com/rovermark/agency_dashboard_app/internal/utils/metrics"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	now         func() time.Time
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountClock overrides the clock, used by tests that pin derived
// attributes to a fixed instant.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	now := s.now()

	goals := make([]domain.Goal, len(req.Goals))
	for i, g := range req.Goals {
		goals[i] = domain.Goal{
			Description: g.Description,
			DueDate:     g.DueDate,
			Status:      g.Status,
			Progress:    g.Progress,
		}
	}

	account := domain.Account{
		AccountID:                uuid.NewString(),
		AccountName:              req.AccountName,
		BusinessUnit:             req.BusinessUnit,
		EngagementType:           req.EngagementType,
		Priority:                 req.Priority,
		AccountManager:           req.AccountManager,
		TeamManager:              req.TeamManager,
		RelationshipStartDate:    req.RelationshipStartDate,
		ContractStartDate:        req.ContractStartDate,
		ContractRenewalEnd:       req.ContractRenewalEnd,
		PointsPurchased:          req.PointsPurchased,
		PointsDelivered:          req.PointsDelivered,
		RecurringPointsAllotment: req.RecurringPointsAllotment,
		MRR:                      req.MRR,
		GrowthInMRR:              req.GrowthInMRR,
		Services:                 req.Services,
		Industry:                 req.Industry,
		AnnualRevenue:            req.AnnualRevenue,
		Employees:                req.Employees,
		Website:                  req.Website,
		LinkedinProfile:          req.LinkedinProfile,
		Goals:                    goals,
		FolderID:                 req.FolderID,
		ListID:                   req.ListID,
		LastSyncState:            domain.SyncNotAttempted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save new account", slog.String("account_name", req.AccountName))
		return nil, err
	}

	account.Derived = metrics.Compute(account, now)
	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	account.Derived = metrics.Compute(*account, s.now())
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	now := s.now()
	for i := range accounts {
		accounts[i].Derived = metrics.Compute(accounts[i], now)
	}
	return accounts, nil
}

// UpdateAccount applies the manually maintained fields from the request and
// recomputes derived attributes on the result. Fields owned by the external
// sync flow are left alone.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Industry != nil {
		account.Industry = *req.Industry
	}
	if req.AnnualRevenue != nil {
		account.AnnualRevenue = *req.AnnualRevenue
	}
	if req.Employees != nil {
		account.Employees = *req.Employees
	}
	if req.Website != nil {
		account.Website = *req.Website
	}
	if req.LinkedinProfile != nil {
		account.LinkedinProfile = *req.LinkedinProfile
	}
	if req.Services != nil {
		account.Services = req.Services
	}
	if req.GrowthInMRR != nil {
		account.GrowthInMRR = *req.GrowthInMRR
	}
	if req.EngagementType != nil {
		account.EngagementType = *req.EngagementType
	}
	if req.Priority != nil {
		account.Priority = *req.Priority
	}
	if req.RelationshipStartDate != nil {
		account.RelationshipStartDate = *req.RelationshipStartDate
	}
	if req.FolderID != nil {
		account.FolderID = *req.FolderID
	}
	if req.ListID != nil {
		account.ListID = *req.ListID
	}

	now := s.now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	account.Derived = metrics.Compute(*account, now)
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("deleted_by", userID))
	return nil
}
