package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NOT_STARTED"
	StatusOnProgress TaskStatus = "ON_PROGRESS"
	StatusDone       TaskStatus = "DONE"
	StatusReject     TaskStatus = "REJECT"
)

// IsValidTaskStatus reports whether s is one of the four task statuses.
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusNotStarted, StatusOnProgress, StatusDone, StatusReject:
		return true
	}
	return false
}

// Task represents the structure of a task in the system.
// CreatedByID never changes after creation; AssignedToID is optional.
type Task struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       TaskStatus `json:"status"`
	CreatedByID  int64      `json:"createdById"`
	AssignedToID *int64     `json:"assignedToId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// joined relations
	CreatedBy  *UserSummary `json:"createdBy,omitempty"`
	AssignedTo *UserSummary `json:"assignedTo,omitempty"`
}

// TaskSummary is the reduced task shape joined into global history rows.
type TaskSummary struct {
	ID     int64      `json:"id"`
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
}

// TaskFilter defines the available parameters for filtering task lists.
type TaskFilter struct {
	AssignedToID *int64
}
