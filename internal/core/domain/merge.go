package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExternalAccountFields is a sparse, already-normalized external record for
// one account. A nil pointer or invalid NullDecimal means the warehouse did
// not supply a usable value for that field; MergeExternal then keeps the
// stored value. Numeric fields are normalized (thousands separators stripped,
// unparseable values marked invalid) before they reach this type.
type ExternalAccountFields struct {
	AccountName              *string
	BusinessUnit             *BusinessUnit
	AccountManager           *string
	TeamManager              *string
	PointsPurchased          decimal.NullDecimal
	PointsDelivered          decimal.NullDecimal
	RecurringPointsAllotment decimal.NullDecimal
	MRR                      decimal.NullDecimal
	ContractStartDate        *time.Time
	ContractRenewalEnd       *time.Time
	Goals                    []Goal // nil = absent, empty slice = explicitly no goals
}

// IsEmpty reports whether the record carries no usable field at all.
func (e ExternalAccountFields) IsEmpty() bool {
	return e.AccountName == nil &&
		e.BusinessUnit == nil &&
		e.AccountManager == nil &&
		e.TeamManager == nil &&
		!e.PointsPurchased.Valid &&
		!e.PointsDelivered.Valid &&
		!e.RecurringPointsAllotment.Valid &&
		!e.MRR.Valid &&
		e.ContractStartDate == nil &&
		e.ContractRenewalEnd == nil &&
		e.Goals == nil
}

// MergeExternal reconciles a stored account with a freshly fetched external
// record. For each field in the external-sourced subset the external value
// wins when it is present and non-empty; otherwise the stored value is kept.
// Manual fields (industry, revenue, employees, URLs, services, growth,
// engagement metadata) are never touched.
//
// Callers must recompute all derived attributes on the result before
// returning or persisting it; MergeExternal itself stays pure and leaves
// the Derived block untouched.
func MergeExternal(stored Account, ext ExternalAccountFields) Account {
	merged := stored

	if ext.AccountName != nil && *ext.AccountName != "" {
		merged.AccountName = *ext.AccountName
	}
	if ext.BusinessUnit != nil && *ext.BusinessUnit != "" {
		merged.BusinessUnit = *ext.BusinessUnit
	}
	if ext.AccountManager != nil && *ext.AccountManager != "" {
		merged.AccountManager = *ext.AccountManager
	}
	if ext.TeamManager != nil && *ext.TeamManager != "" {
		merged.TeamManager = *ext.TeamManager
	}
	if ext.PointsPurchased.Valid {
		merged.PointsPurchased = ext.PointsPurchased.Decimal
	}
	if ext.PointsDelivered.Valid {
		merged.PointsDelivered = ext.PointsDelivered.Decimal
	}
	if ext.RecurringPointsAllotment.Valid {
		merged.RecurringPointsAllotment = ext.RecurringPointsAllotment.Decimal
	}
	if ext.MRR.Valid {
		merged.MRR = ext.MRR.Decimal
	}
	if ext.ContractStartDate != nil && !ext.ContractStartDate.IsZero() {
		merged.ContractStartDate = *ext.ContractStartDate
	}
	if ext.ContractRenewalEnd != nil && !ext.ContractRenewalEnd.IsZero() {
		end := *ext.ContractRenewalEnd
		merged.ContractRenewalEnd = &end
	}
	if ext.Goals != nil {
		merged.Goals = make([]Goal, len(ext.Goals))
		copy(merged.Goals, ext.Goals)
	}

	return merged
}
