package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// ListAccountIDs retrieves the IDs of every stored account, in creation order.
	ListAccountIDs(ctx context.Context) ([]string, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount permanently removes an account.
	DeleteAccount(ctx context.Context, accountID string) error

	// UpdateSyncStatus records the outcome of an external sync attempt.
	UpdateSyncStatus(ctx context.Context, accountID string, state domain.SyncState, syncError string, syncedAt time.Time) error
}

// AccountSyncSupport defines operations that support the external sync flow,
// which must read, merge and write an account within a single transaction.
type AccountSyncSupport interface {
	// FindAccountByIDForUpdate selects an account and locks it for update within a transaction.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// UpdateAccountInTx updates an account's details within a given transaction.
	UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountSyncSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
