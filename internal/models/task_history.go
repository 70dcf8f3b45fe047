package models

import "time"

// HistoryAction tags what kind of mutation produced a history entry.
type HistoryAction string

const (
	ActionTaskCreated HistoryAction = "TASK_CREATED"
	ActionTaskUpdated HistoryAction = "TASK_UPDATED"
	ActionTaskDeleted HistoryAction = "TASK_DELETED"
)

// TaskHistory is an immutable audit record paired 1:1 with a task mutation.
// The previous/new pairs are pointers: a field that was not part of the
// mutation stays nil and is absent from the JSON output.
type TaskHistory struct {
	ID        int64         `json:"id"`
	TaskID    int64         `json:"taskId"`
	UserID    int64         `json:"userId"`
	Action    HistoryAction `json:"action"`
	Timestamp time.Time     `json:"timestamp"`

	PreviousTitle    *string     `json:"previousTitle,omitempty"`
	NewTitle         *string     `json:"newTitle,omitempty"`
	PreviousDesc     *string     `json:"previousDesc,omitempty"`
	NewDesc          *string     `json:"newDesc,omitempty"`
	PreviousStatus   *TaskStatus `json:"previousStatus,omitempty"`
	NewStatus        *TaskStatus `json:"newStatus,omitempty"`
	PreviousAssignee *int64      `json:"previousAssignee,omitempty"`
	NewAssignee      *int64      `json:"newAssignee,omitempty"`

	// joined relations
	User *UserSummary `json:"user,omitempty"`
	Task *TaskSummary `json:"task,omitempty"`
}

// HistoryFilter defines the available parameters for filtering the history feed.
type HistoryFilter struct {
	TaskID *int64
	// AssignedToID scopes entries to tasks currently assigned to this user.
	AssignedToID *int64
}

// HistoryPage is the pagination envelope for history listings.
type HistoryPage struct {
	Items      []TaskHistory `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
	HasMore    bool          `json:"hasMore"`
}
