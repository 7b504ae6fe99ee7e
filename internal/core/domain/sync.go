package domain

import "time"

// SyncState is the terminal (or in-progress) state of one account's sync
// attempt against the external warehouse.
type SyncState string

const (
	SyncNotAttempted    SyncState = "NOT_ATTEMPTED"
	SyncInFlight        SyncState = "IN_FLIGHT"
	SyncMerged          SyncState = "MERGED"
	SyncSkippedNoIDs    SyncState = "SKIPPED_NO_IDS"
	SyncFailedPreserved SyncState = "FAILED_PRESERVED"
)

// SyncOutcome records the result of one account's sync attempt. A batch sync
// returns one outcome per account rather than a single pass/fail flag, so a
// failing account never hides its siblings' results.
type SyncOutcome struct {
	AccountID string    `json:"accountID"`
	State     SyncState `json:"state"`
	Error     string    `json:"error,omitempty"`
	SyncedAt  time.Time `json:"syncedAt"`
}
