package pgsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rovermark/agency_dashboard_app/internal/apperrors"
	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
	portsrepo "github.com/rovermark/agency_dashboard_app/internal/core/ports/repositories"
	"github.com/rovermark/agency_dashboard_app/internal/models"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements the full facade
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, account_name, business_unit, engagement_type, priority,
	account_manager, team_manager, relationship_start_date, contract_start_date, contract_renewal_end,
	points_purchased, points_delivered, recurring_points_allotment, mrr, growth_in_mrr,
	services, industry, annual_revenue, employees, website, linkedin_profile, goals,
	folder_id, list_id, last_sync_state, last_synced_at, last_sync_error,
	created_at, created_by, last_updated_at, last_updated_by`

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) (models.Account, error) {
	services := make([]string, len(d.Services))
	for i, s := range d.Services {
		services[i] = string(s)
	}
	goals, err := json.Marshal(d.Goals)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to marshal goals for account %s: %w", d.AccountID, err)
	}

	m := models.Account{
		AccountID:                d.AccountID,
		AccountName:              d.AccountName,
		BusinessUnit:             string(d.BusinessUnit),
		EngagementType:           string(d.EngagementType),
		Priority:                 string(d.Priority),
		AccountManager:           d.AccountManager,
		TeamManager:              d.TeamManager,
		RelationshipStartDate:    d.RelationshipStartDate,
		ContractStartDate:        d.ContractStartDate,
		PointsPurchased:          d.PointsPurchased,
		PointsDelivered:          d.PointsDelivered,
		RecurringPointsAllotment: d.RecurringPointsAllotment,
		MRR:                      d.MRR,
		GrowthInMRR:              d.GrowthInMRR,
		Services:                 services,
		Industry:                 d.Industry,
		AnnualRevenue:            d.AnnualRevenue,
		Employees:                d.Employees,
		Website:                  d.Website,
		LinkedinProfile:          d.LinkedinProfile,
		Goals:                    goals,
		FolderID:                 d.FolderID,
		ListID:                   d.ListID,
		LastSyncState:            string(d.LastSyncState),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.ContractRenewalEnd != nil {
		m.ContractRenewalEnd = sql.NullTime{Time: *d.ContractRenewalEnd, Valid: true}
	}
	if d.LastSyncedAt != nil {
		m.LastSyncedAt = sql.NullTime{Time: *d.LastSyncedAt, Valid: true}
	}
	if d.LastSyncError != "" {
		m.LastSyncError = sql.NullString{String: d.LastSyncError, Valid: true}
	}
	return m, nil
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) (domain.Account, error) {
	services := make([]domain.Service, len(m.Services))
	for i, s := range m.Services {
		services[i] = domain.Service(s)
	}
	var goals []domain.Goal
	if len(m.Goals) > 0 {
		if err := json.Unmarshal(m.Goals, &goals); err != nil {
			return domain.Account{}, fmt.Errorf("failed to unmarshal goals for account %s: %w", m.AccountID, err)
		}
	}

	d := domain.Account{
		AccountID:                m.AccountID,
		AccountName:              m.AccountName,
		BusinessUnit:             domain.BusinessUnit(m.BusinessUnit),
		EngagementType:           domain.EngagementType(m.EngagementType),
		Priority:                 domain.Priority(m.Priority),
		AccountManager:           m.AccountManager,
		TeamManager:              m.TeamManager,
		RelationshipStartDate:    m.RelationshipStartDate,
		ContractStartDate:        m.ContractStartDate,
		PointsPurchased:          m.PointsPurchased,
		PointsDelivered:          m.PointsDelivered,
		RecurringPointsAllotment: m.RecurringPointsAllotment,
		MRR:                      m.MRR,
		GrowthInMRR:              m.GrowthInMRR,
		Services:                 services,
		Industry:                 m.Industry,
		AnnualRevenue:            m.AnnualRevenue,
		Employees:                m.Employees,
		Website:                  m.Website,
		LinkedinProfile:          m.LinkedinProfile,
		Goals:                    goals,
		FolderID:                 m.FolderID,
		ListID:                   m.ListID,
		LastSyncState:            domain.SyncState(m.LastSyncState),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.ContractRenewalEnd.Valid {
		t := m.ContractRenewalEnd.Time
		d.ContractRenewalEnd = &t
	}
	if m.LastSyncedAt.Valid {
		t := m.LastSyncedAt.Time
		d.LastSyncedAt = &t
	}
	if m.LastSyncError.Valid {
		d.LastSyncError = m.LastSyncError.String
	}
	return d, nil
}

// scanAccount scans one row in accountColumns order.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.AccountName,
		&m.BusinessUnit,
		&m.EngagementType,
		&m.Priority,
		&m.AccountManager,
		&m.TeamManager,
		&m.RelationshipStartDate,
		&m.ContractStartDate,
		&m.ContractRenewalEnd,
		&m.PointsPurchased,
		&m.PointsDelivered,
		&m.RecurringPointsAllotment,
		&m.MRR,
		&m.GrowthInMRR,
		&m.Services,
		&m.Industry,
		&m.AnnualRevenue,
		&m.Employees,
		&m.Website,
		&m.LinkedinProfile,
		&m.Goals,
		&m.FolderID,
		&m.ListID,
		&m.LastSyncState,
		&m.LastSyncedAt,
		&m.LastSyncError,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return toDomainAccount(m)
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m, err := toModelAccount(account)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31);
	`

	_, err = r.Pool.Exec(ctx, query,
		m.AccountID, m.AccountName, m.BusinessUnit, m.EngagementType, m.Priority,
		m.AccountManager, m.TeamManager, m.RelationshipStartDate, m.ContractStartDate, m.ContractRenewalEnd,
		m.PointsPurchased, m.PointsDelivered, m.RecurringPointsAllotment, m.MRR, m.GrowthInMRR,
		m.Services, m.Industry, m.AnnualRevenue, m.Employees, m.Website, m.LinkedinProfile, m.Goals,
		m.FolderID, m.ListID, m.LastSyncState, m.LastSyncedAt, m.LastSyncError,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// ListAccounts retrieves a paginated list of accounts ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY account_name LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListAccountIDs retrieves every account ID in creation order.
func (r *PgxAccountRepository) ListAccountIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT account_id FROM accounts ORDER BY created_at;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account IDs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account ID rows: %w", err)
	}
	return ids, nil
}

const updateAccountSet = `account_name = $2, business_unit = $3, engagement_type = $4, priority = $5,
		account_manager = $6, team_manager = $7, relationship_start_date = $8, contract_start_date = $9,
		contract_renewal_end = $10, points_purchased = $11, points_delivered = $12,
		recurring_points_allotment = $13, mrr = $14, growth_in_mrr = $15, services = $16,
		industry = $17, annual_revenue = $18, employees = $19, website = $20, linkedin_profile = $21,
		goals = $22, folder_id = $23, list_id = $24, last_updated_at = $25, last_updated_by = $26`

func updateAccountArgs(m models.Account) []any {
	return []any{
		m.AccountID, m.AccountName, m.BusinessUnit, m.EngagementType, m.Priority,
		m.AccountManager, m.TeamManager, m.RelationshipStartDate, m.ContractStartDate,
		m.ContractRenewalEnd, m.PointsPurchased, m.PointsDelivered,
		m.RecurringPointsAllotment, m.MRR, m.GrowthInMRR, m.Services,
		m.Industry, m.AnnualRevenue, m.Employees, m.Website, m.LinkedinProfile,
		m.Goals, m.FolderID, m.ListID, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

// UpdateAccount updates an existing account in the database.
// Audit creation fields and sync status columns are never touched here.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m, err := toModelAccount(account)
	if err != nil {
		return err
	}

	query := `UPDATE accounts SET ` + updateAccountSet + ` WHERE account_id = $1;`

	cmdTag, err := r.Pool.Exec(ctx, query, updateAccountArgs(m)...)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAccount permanently removes an account.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateSyncStatus records the outcome of an external sync attempt.
func (r *PgxAccountRepository) UpdateSyncStatus(ctx context.Context, accountID string, state domain.SyncState, syncError string, syncedAt time.Time) error {
	var errCol sql.NullString
	if syncError != "" {
		errCol = sql.NullString{String: syncError, Valid: true}
	}
	var atCol sql.NullTime
	if !syncedAt.IsZero() {
		atCol = sql.NullTime{Time: syncedAt, Valid: true}
	}

	query := `
		UPDATE accounts
		SET last_sync_state = $2, last_sync_error = $3, last_synced_at = $4
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, string(state), errCol, atCol)
	if err != nil {
		return fmt.Errorf("failed to update sync status for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountByIDForUpdate retrieves an account by ID and locks the row.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`

	acc, err := scanAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s for update: %w", accountID, err)
	}
	return &acc, nil
}

// UpdateAccountInTx updates an account's details within a given transaction.
func (r *PgxAccountRepository) UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	m, err := toModelAccount(account)
	if err != nil {
		return err
	}

	query := `UPDATE accounts SET ` + updateAccountSet + ` WHERE account_id = $1;`

	cmdTag, err := tx.Exec(ctx, query, updateAccountArgs(m)...)
	if err != nil {
		return fmt.Errorf("failed to update account %s in tx: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
