package dto

import (
	"time"

	"github.com/rovermark/agency_dashboard_app/internal/core/domain"
)

// SyncOutcomeResponse describes the result of one account's sync attempt.
type SyncOutcomeResponse struct {
	AccountID string           `json:"accountID"`
	State     domain.SyncState `json:"state"`
	Error     string           `json:"error,omitempty"`
	SyncedAt  time.Time        `json:"syncedAt"`
}

// BatchSyncResponse wraps the per-account outcomes of a full sync run,
// with counts so callers don't have to tally themselves.
type BatchSyncResponse struct {
	Total    int                   `json:"total"`
	Merged   int                   `json:"merged"`
	Skipped  int                   `json:"skipped"`
	Failed   int                   `json:"failed"`
	Outcomes []SyncOutcomeResponse `json:"outcomes"`
}

// ToSyncOutcomeResponse converts a domain.SyncOutcome to its DTO.
func ToSyncOutcomeResponse(o domain.SyncOutcome) SyncOutcomeResponse {
	return SyncOutcomeResponse{
		AccountID: o.AccountID,
		State:     o.State,
		Error:     o.Error,
		SyncedAt:  o.SyncedAt,
	}
}

// ToBatchSyncResponse converts a slice of outcomes to the batch DTO.
func ToBatchSyncResponse(outcomes []domain.SyncOutcome) BatchSyncResponse {
	resp := BatchSyncResponse{
		Total:    len(outcomes),
		Outcomes: make([]SyncOutcomeResponse, len(outcomes)),
	}
	for i, o := range outcomes {
		resp.Outcomes[i] = ToSyncOutcomeResponse(o)
		switch o.State {
		case domain.SyncMerged:
			resp.Merged++
		case domain.SyncSkippedNoIDs:
			resp.Skipped++
		case domain.SyncFailedPreserved:
			resp.Failed++
		}
	}
	return resp
}
