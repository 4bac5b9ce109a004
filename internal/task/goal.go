package task

import "time"

// Goal represents a long-term goal. The horizon is kept as the user's own
// phrasing ("in 3 months") rather than a computed deadline.
type Goal struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Horizon     string    `json:"horizon,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`

	// TaskIDs references tasks created on behalf of this goal. The relation
	// is weak: deleting a task leaves the goal intact.
	TaskIDs []int `json:"taskIds,omitempty"`
}

// Goal status constants
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
)
