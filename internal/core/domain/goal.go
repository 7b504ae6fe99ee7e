package domain

import "time"

// GoalStatus tracks the lifecycle of a client goal.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "NOT_STARTED"
	GoalInProgress GoalStatus = "IN_PROGRESS"
	GoalCompleted  GoalStatus = "COMPLETED"
	GoalCancelled  GoalStatus = "CANCELLED"
)

// Goal is a client objective attached to an account. Goals are ordered; the
// slice order is the display order.
type Goal struct {
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      GoalStatus `json:"status"`
	Progress    int        `json:"progress"` // 0..100
}
