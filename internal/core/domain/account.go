package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessUnit identifies the agency division that owns the engagement.
type BusinessUnit string

const (
	BusinessUnitDigital  BusinessUnit = "DIGITAL"
	BusinessUnitCreative BusinessUnit = "CREATIVE"
	BusinessUnitMedia    BusinessUnit = "MEDIA"
)

// EngagementType classifies the commercial model of the engagement.
type EngagementType string

const (
	EngagementRetainer EngagementType = "RETAINER"
	EngagementProject  EngagementType = "PROJECT"
	EngagementHybrid   EngagementType = "HYBRID"
)

// Priority is the account's internal attention ranking.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Service is a line of service delivered to the client.
type Service string

const (
	ServiceSEO       Service = "SEO"
	ServicePPC       Service = "PPC"
	ServiceContent   Service = "CONTENT"
	ServiceSocial    Service = "SOCIAL"
	ServiceEmail     Service = "EMAIL"
	ServiceWeb       Service = "WEB"
	ServiceCreative  Service = "CREATIVE"
	ServiceAnalytics Service = "ANALYTICS"
)

// DeliveryStatus is the binary on-track/off-track classification derived from
// points striking distance. Empty when the inputs are unknown.
type DeliveryStatus string

const (
	DeliveryOnTrack  DeliveryStatus = "ON_TRACK"
	DeliveryOffTrack DeliveryStatus = "OFF_TRACK"
)

// Account represents a client account within the core domain.
// This is the primary representation used by services.
//
// The numeric points/financial fields are authoritative stored values; the
// Derived block is recomputed from them on every read and write and is never
// persisted or edited directly.
type Account struct {
	AccountID                string          `json:"accountID"` // Primary Key (UUID)
	AccountName              string          `json:"accountName"`
	BusinessUnit             BusinessUnit    `json:"businessUnit"`
	EngagementType           EngagementType  `json:"engagementType"`
	Priority                 Priority        `json:"priority"`
	AccountManager           string          `json:"accountManager"`
	TeamManager              string          `json:"teamManager"`
	RelationshipStartDate    time.Time       `json:"relationshipStartDate"`
	ContractStartDate        time.Time       `json:"contractStartDate"`
	ContractRenewalEnd       *time.Time      `json:"contractRenewalEnd,omitempty"`
	PointsPurchased          decimal.Decimal `json:"pointsPurchased"`
	PointsDelivered          decimal.Decimal `json:"pointsDelivered"`
	RecurringPointsAllotment decimal.Decimal `json:"recurringPointsAllotment"`
	MRR                      decimal.Decimal `json:"mrr"`
	GrowthInMRR              decimal.Decimal `json:"growthInMrr"`
	Services                 []Service       `json:"services"`
	Industry                 string          `json:"industry"`
	AnnualRevenue            string          `json:"annualRevenue"`
	Employees                string          `json:"employees"`
	Website                  string          `json:"website"`
	LinkedinProfile          string          `json:"linkedinProfile"`
	Goals                    []Goal          `json:"goals"`

	// Warehouse identifiers. Both must be present for a sync attempt.
	FolderID string `json:"folderID"`
	ListID   string `json:"listID"`

	// Last external sync attempt, persisted so the dashboard can show sync
	// freshness per account.
	LastSyncState SyncState  `json:"lastSyncState"`
	LastSyncedAt  *time.Time `json:"lastSyncedAt,omitempty"`
	LastSyncError string     `json:"lastSyncError,omitempty"`

	AuditFields

	// Derived is attached by the service layer, never stored.
	Derived Derived `json:"derived"`
}

// Derived holds every attribute computed from the stored fields. All members
// are refreshed together; a partially refreshed Derived is a bug.
type Derived struct {
	PointsBalance          decimal.NullDecimal `json:"pointsBalance"`
	PointsStrikingDistance decimal.NullDecimal `json:"pointsStrikingDistance"`
	Delivery               DeliveryStatus      `json:"delivery"`
	PotentialMRR           decimal.NullDecimal `json:"potentialMrr"`
	ClientTenureMonths     int                 `json:"clientTenureMonths"`
	PointsDeliveredPct     int                 `json:"pointsDeliveredPct"`
}

// HasWarehouseIDs reports whether the account carries both identifiers
// required to fetch its external record.
func (a Account) HasWarehouseIDs() bool {
	return a.FolderID != "" && a.ListID != ""
}
