package services

import (
	"context"

	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
)

// SyncTriggerSvc defines operations for triggering external sync runs
type SyncTriggerSvc interface {
	// SyncAccount fetches the external record for one account, merges it with
	// the stored record and recomputes derived attributes. The returned outcome
	// describes the terminal state of the attempt; fetch or merge failures are
	// reported inside the outcome, not as an error.
	SyncAccount(ctx context.Context, accountID string, userID string) (*domain.SyncOutcome, error)

	// SyncAllAccounts runs SyncAccount over every stored account with bounded
	// concurrency and returns one outcome per account. Individual failures
	// never abort the batch.
	SyncAllAccounts(ctx context.Context, userID string) ([]domain.SyncOutcome, error)
}

// SyncSvcFacade combines all sync-related service interfaces
type SyncSvcFacade interface {
	SyncTriggerSvc
}
