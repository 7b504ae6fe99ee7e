package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Account is the database representation of a client account.
// Services is a text[] column; Goals is a jsonb column kept as raw bytes and
// unmarshalled at the repository boundary.
type Account struct {
	AccountID                string          `db:"account_id"`
	AccountName              string          `db:"account_name"`
	BusinessUnit             string          `db:"business_unit"`
	EngagementType           string          `db:"engagement_type"`
	Priority                 string          `db:"priority"`
	AccountManager           string          `db:"account_manager"`
	TeamManager              string          `db:"team_manager"`
	RelationshipStartDate    time.Time       `db:"relationship_start_date"`
	ContractStartDate        time.Time       `db:"contract_start_date"`
	ContractRenewalEnd       sql.NullTime    `db:"contract_renewal_end"`
	PointsPurchased          decimal.Decimal `db:"points_purchased"`
	PointsDelivered          decimal.Decimal `db:"points_delivered"`
	RecurringPointsAllotment decimal.Decimal `db:"recurring_points_allotment"`
	MRR                      decimal.Decimal `db:"mrr"`
	GrowthInMRR              decimal.Decimal `db:"growth_in_mrr"`
	Services                 []string        `db:"services"`
	Industry                 string          `db:"industry"`
	AnnualRevenue            string          `db:"annual_revenue"`
	Employees                string          `db:"employees"`
	Website                  string          `db:"website"`
	LinkedinProfile          string          `db:"linkedin_profile"`
	Goals                    []byte          `db:"goals"`
	FolderID                 string          `db:"folder_id"`
	ListID                   string          `db:"list_id"`
	LastSyncState            string          `db:"last_sync_state"`
	LastSyncedAt             sql.NullTime    `db:"last_synced_at"`
	LastSyncError            sql.NullString  `db:"last_sync_error"`
	AuditFields
}
