package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
)

// GoalRequest defines a single client goal as supplied by the API.
type GoalRequest struct {
	Description string            `json:"description" binding:"required"`
	DueDate     *time.Time        `json:"dueDate"`
	Status      domain.GoalStatus `json:"status" binding:"required,oneof=NOT_STARTED IN_PROGRESS COMPLETED CANCELLED"`
	Progress    int               `json:"progress" binding:"min=0,max=100"`
}

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountName              string                `json:"accountName" binding:"required"`
	BusinessUnit             domain.BusinessUnit   `json:"businessUnit" binding:"required,oneof=DIGITAL CREATIVE MEDIA"`
	EngagementType           domain.EngagementType `json:"engagementType" binding:"required,oneof=RETAINER PROJECT HYBRID"`
	Priority                 domain.Priority       `json:"priority" binding:"omitempty,oneof=HIGH MEDIUM LOW"`
	AccountManager           string                `json:"accountManager"`
	TeamManager              string                `json:"teamManager"`
	RelationshipStartDate    time.Time             `json:"relationshipStartDate"`
	ContractStartDate        time.Time             `json:"contractStartDate"`
	ContractRenewalEnd       *time.Time            `json:"contractRenewalEnd"` // Optional, use pointer for nullability
	PointsPurchased          decimal.Decimal       `json:"pointsPurchased"`
	PointsDelivered          decimal.Decimal       `json:"pointsDelivered"`
	RecurringPointsAllotment decimal.Decimal       `json:"recurringPointsAllotment"`
	MRR                      decimal.Decimal       `json:"mrr"`
	GrowthInMRR              decimal.Decimal       `json:"growthInMrr"`
	Services                 []domain.Service      `json:"services" binding:"omitempty,dive,oneof=SEO PPC CONTENT SOCIAL EMAIL WEB CREATIVE ANALYTICS"`
	Industry                 string                `json:"industry"`
	AnnualRevenue            string                `json:"annualRevenue"`
	Employees                string                `json:"employees"`
	Website                  string                `json:"website" binding:"omitempty,url"`
	LinkedinProfile          string                `json:"linkedinProfile" binding:"omitempty,url"`
	Goals                    []GoalRequest         `json:"goals" binding:"omitempty,dive"`
	FolderID                 string                `json:"folderID"`
	ListID                   string                `json:"listID"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Only manually maintained fields are accepted here; everything sourced from
// the external warehouse is written exclusively by the sync flow.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Industry              *string                `json:"industry"`
	AnnualRevenue         *string                `json:"annualRevenue"`
	Employees             *string                `json:"employees"`
	Website               *string                `json:"website" binding:"omitempty,url"`
	LinkedinProfile       *string                `json:"linkedinProfile" binding:"omitempty,url"`
	Services              []domain.Service       `json:"services" binding:"omitempty,dive,oneof=SEO PPC CONTENT SOCIAL EMAIL WEB CREATIVE ANALYTICS"`
	GrowthInMRR           *decimal.Decimal       `json:"growthInMrr"`
	EngagementType        *domain.EngagementType `json:"engagementType" binding:"omitempty,oneof=RETAINER PROJECT HYBRID"`
	Priority              *domain.Priority       `json:"priority" binding:"omitempty,oneof=HIGH MEDIUM LOW"`
	RelationshipStartDate *time.Time             `json:"relationshipStartDate"`
	FolderID              *string                `json:"folderID"`
	ListID                *string                `json:"listID"`
}

// GoalResponse defines the data returned for a single client goal.
type GoalResponse struct {
	Description string            `json:"description"`
	DueDate     *time.Time        `json:"dueDate,omitempty"`
	Status      domain.GoalStatus `json:"status"`
	Progress    int               `json:"progress"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account, with the derived attributes flattened in.
type AccountResponse struct {
	AccountID                string                `json:"accountID"`
	AccountName              string                `json:"accountName"`
	BusinessUnit             domain.BusinessUnit   `json:"businessUnit"`
	EngagementType           domain.EngagementType `json:"engagementType"`
	Priority                 domain.Priority       `json:"priority"`
	AccountManager           string                `json:"accountManager"`
	TeamManager              string                `json:"teamManager"`
	RelationshipStartDate    time.Time             `json:"relationshipStartDate"`
	ContractStartDate        time.Time             `json:"contractStartDate"`
	ContractRenewalEnd       *time.Time            `json:"contractRenewalEnd,omitempty"`
	PointsPurchased          decimal.Decimal       `json:"pointsPurchased"`
	PointsDelivered          decimal.Decimal       `json:"pointsDelivered"`
	RecurringPointsAllotment decimal.Decimal       `json:"recurringPointsAllotment"`
	MRR                      decimal.Decimal       `json:"mrr"`
	GrowthInMRR              decimal.Decimal       `json:"growthInMrr"`
	Services                 []domain.Service      `json:"services"`
	Industry                 string                `json:"industry"`
	AnnualRevenue            string                `json:"annualRevenue"`
	Employees                string                `json:"employees"`
	Website                  string                `json:"website"`
	LinkedinProfile          string                `json:"linkedinProfile"`
	Goals                    []GoalResponse        `json:"goals"`
	FolderID                 string                `json:"folderID"`
	ListID                   string                `json:"listID"`

	// Derived attributes, recomputed on every read. Null when their inputs
	// are unknown.
	PointsBalance          decimal.NullDecimal   `json:"pointsBalance"`
	PointsStrikingDistance decimal.NullDecimal   `json:"pointsStrikingDistance"`
	DeliveryStatus         domain.DeliveryStatus `json:"deliveryStatus"`
	PotentialMRR           decimal.NullDecimal   `json:"potentialMrr"`
	ClientTenureMonths     int                   `json:"clientTenureMonths"`
	PointsDeliveredPct     int                   `json:"pointsDeliveredPct"`

	LastSyncState domain.SyncState `json:"lastSyncState"`
	LastSyncedAt  *time.Time       `json:"lastSyncedAt,omitempty"`
	LastSyncError string           `json:"lastSyncError,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	goals := make([]GoalResponse, len(acc.Goals))
	for i, g := range acc.Goals {
		goals[i] = GoalResponse{
			Description: g.Description,
			DueDate:     g.DueDate,
			Status:      g.Status,
			Progress:    g.Progress,
		}
	}
	return AccountResponse{
		AccountID:                acc.AccountID,
		AccountName:              acc.AccountName,
		BusinessUnit:             acc.BusinessUnit,
		EngagementType:           acc.EngagementType,
		Priority:                 acc.Priority,
		AccountManager:           acc.AccountManager,
		TeamManager:              acc.TeamManager,
		RelationshipStartDate:    acc.RelationshipStartDate,
		ContractStartDate:        acc.ContractStartDate,
		ContractRenewalEnd:       acc.ContractRenewalEnd,
		PointsPurchased:          acc.PointsPurchased,
		PointsDelivered:          acc.PointsDelivered,
		RecurringPointsAllotment: acc.RecurringPointsAllotment,
		MRR:                      acc.MRR,
		GrowthInMRR:              acc.GrowthInMRR,
		Services:                 acc.Services,
		Industry:                 acc.Industry,
		AnnualRevenue:            acc.AnnualRevenue,
		Employees:                acc.Employees,
		Website:                  acc.Website,
		LinkedinProfile:          acc.LinkedinProfile,
		Goals:                    goals,
		FolderID:                 acc.FolderID,
		ListID:                   acc.ListID,
		PointsBalance:            acc.Derived.PointsBalance,
		PointsStrikingDistance:   acc.Derived.PointsStrikingDistance,
		DeliveryStatus:           acc.Derived.Delivery,
		PotentialMRR:             acc.Derived.PotentialMRR,
		ClientTenureMonths:       acc.Derived.ClientTenureMonths,
		PointsDeliveredPct:       acc.Derived.PointsDeliveredPct,
		LastSyncState:            acc.LastSyncState,
		LastSyncedAt:             acc.LastSyncedAt,
		LastSyncError:            acc.LastSyncError,
		CreatedAt:                acc.CreatedAt,
		CreatedBy:                acc.CreatedBy,
		LastUpdatedAt:            acc.LastUpdatedAt,
		LastUpdatedBy:            acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
