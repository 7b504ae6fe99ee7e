package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rovermark/agency_dashboard_app/internal/apperrors"
	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
	portsrepo "github.com/rovermark/agency_dashboard_app/internal/core/ports/repositories"
	portssvc "github.com/rovermark/agency_dashboard_app/internal/core/ports/services"
	"github.com/rovermark/agency_dashboard_app/internal/utils/metrics"
	"github.com/rovermark/agency_dashboard_app/pkg/warehouse"
)

const defaultSyncConcurrency = 5

// syncService implements SyncSvcFacade. It owns the fetch-normalize-merge
// pipeline against the external warehouse.
type syncService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
	client      warehouse.Client
	concurrency int
	now         func() time.Time
}

// SyncServiceOption is a functional option for configuring the sync service
type SyncServiceOption func(*syncService)

// WithSyncConcurrency bounds the number of accounts synced in parallel.
func WithSyncConcurrency(n int) SyncServiceOption {
	return func(s *syncService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithSyncClock overrides the clock for tests.
func WithSyncClock(now func() time.Time) SyncServiceOption {
	return func(s *syncService) {
		s.now = now
	}
}

// NewSyncService creates a new sync service with the provided options
func NewSyncService(repo portsrepo.AccountRepositoryWithTx, client warehouse.Client, options ...SyncServiceOption) portssvc.SyncSvcFacade {
	svc := &syncService{
		accountRepo: repo,
		client:      client,
		concurrency: defaultSyncConcurrency,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure syncService implements the SyncSvcFacade interface
var _ portssvc.SyncSvcFacade = (*syncService)(nil)

// SyncAccount runs one account through the sync state machine. The returned
// outcome always carries a terminal state; only infrastructure failures that
// prevent the attempt from being recorded at all surface as errors.
func (s *syncService) SyncAccount(ctx context.Context, accountID string, userID string) (*domain.SyncOutcome, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if !account.HasWarehouseIDs() {
		if err := s.accountRepo.UpdateSyncStatus(ctx, accountID, domain.SyncSkippedNoIDs, "", now); err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "Sync skipped, account has no warehouse IDs", slog.String("account_id", accountID))
		return &domain.SyncOutcome{AccountID: accountID, State: domain.SyncSkippedNoIDs, SyncedAt: now}, nil
	}

	if err := s.accountRepo.UpdateSyncStatus(ctx, accountID, domain.SyncInFlight, "", now); err != nil {
		return nil, err
	}

	record, err := s.client.GetListRecord(ctx, account.FolderID, account.ListID)
	if err != nil {
		return s.failPreserved(ctx, accountID, fmt.Errorf("fetch external record: %w: %w", apperrors.ErrExternalSource, err))
	}

	ext := normalizeRecord(record)

	if err := s.mergeAndStore(ctx, accountID, ext, userID); err != nil {
		return s.failPreserved(ctx, accountID, err)
	}

	syncedAt := s.now()
	if err := s.accountRepo.UpdateSyncStatus(ctx, accountID, domain.SyncMerged, "", syncedAt); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Account synced", slog.String("account_id", accountID))
	return &domain.SyncOutcome{AccountID: accountID, State: domain.SyncMerged, SyncedAt: syncedAt}, nil
}

// failPreserved records a failed attempt. The stored account is untouched, so
// the failure is reported inside the outcome rather than as an error.
func (s *syncService) failPreserved(ctx context.Context, accountID string, cause error) (*domain.SyncOutcome, error) {
	now := s.now()
	s.LogError(ctx, cause, "Sync failed, stored data preserved", slog.String("account_id", accountID))
	if err := s.accountRepo.UpdateSyncStatus(ctx, accountID, domain.SyncFailedPreserved, cause.Error(), now); err != nil {
		return nil, err
	}
	return &domain.SyncOutcome{
		AccountID: accountID,
		State:     domain.SyncFailedPreserved,
		Error:     cause.Error(),
		SyncedAt:  now,
	}, nil
}

// mergeAndStore locks the account row, merges the external fields into it and
// writes the result, all within one transaction so readers never observe a
// half-merged account.
func (s *syncService) mergeAndStore(ctx context.Context, accountID string, ext domain.ExternalAccountFields, userID string) error {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.accountRepo.Rollback(ctx, tx)
	}()

	stored, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return err
	}

	merged := domain.MergeExternal(*stored, ext)
	merged.LastUpdatedAt = s.now()
	merged.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccountInTx(ctx, tx, merged); err != nil {
		return err
	}
	return s.accountRepo.Commit(ctx, tx)
}

// SyncAllAccounts fans SyncAccount out over every stored account with bounded
// concurrency. One outcome per account; a failing account never aborts its
// siblings.
func (s *syncService) SyncAllAccounts(ctx context.Context, userID string) ([]domain.SyncOutcome, error) {
	ids, err := s.accountRepo.ListAccountIDs(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]domain.SyncOutcome, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			outcome, err := s.SyncAccount(ctx, id, userID)
			if err != nil {
				outcomes[i] = domain.SyncOutcome{
					AccountID: id,
					State:     domain.SyncFailedPreserved,
					Error:     err.Error(),
					SyncedAt:  s.now(),
				}
				return nil // don't abort batch on individual failure
			}
			outcomes[i] = *outcome
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Batch sync completed", slog.Int("accounts", len(ids)))
	return outcomes, nil
}

// normalizeRecord converts the warehouse's stringly-typed record into typed
// external fields. Unparseable numbers and dates become absent, so the merge
// falls back to stored values instead of propagating garbage.
func normalizeRecord(rec *warehouse.Record) domain.ExternalAccountFields {
	ext := domain.ExternalAccountFields{
		PointsPurchased:          metrics.ParseNumber(rec.PointsPurchased),
		PointsDelivered:          metrics.ParseNumber(rec.PointsDelivered),
		RecurringPointsAllotment: metrics.ParseNumber(rec.RecurringPoints),
		MRR:                      metrics.ParseMoney(rec.MRR),
	}
	if rec.Name != "" {
		ext.AccountName = &rec.Name
	}
	if rec.BusinessUnit != "" {
		bu := domain.BusinessUnit(rec.BusinessUnit)
		ext.BusinessUnit = &bu
	}
	if rec.AccountManager != "" {
		ext.AccountManager = &rec.AccountManager
	}
	if rec.TeamManager != "" {
		ext.TeamManager = &rec.TeamManager
	}
	if t, ok := parseWarehouseDate(rec.ContractStartDate); ok {
		ext.ContractStartDate = &t
	}
	if t, ok := parseWarehouseDate(rec.ContractRenewalEnd); ok {
		ext.ContractRenewalEnd = &t
	}
	if rec.Goals != nil {
		goals := make([]domain.Goal, len(rec.Goals))
		for i, g := range rec.Goals {
			goals[i] = domain.Goal{
				Description: g.Description,
				Status:      domain.GoalStatus(g.Status),
				Progress:    g.Progress,
			}
			if t, ok := parseWarehouseDate(g.DueDate); ok {
				goals[i].DueDate = &t
			}
		}
		ext.Goals = goals
	}
	return ext
}

// parseWarehouseDate accepts the two date shapes the warehouse emits.
func parseWarehouseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
