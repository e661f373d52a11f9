package domain

import (
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
	TaskCancelled  TaskStatus = "CANCELLED"
)

func ParseTaskStatus(raw string) (TaskStatus, error) {
	switch s := TaskStatus(raw); s {
	case TaskPending, TaskInProgress, TaskDone, TaskCancelled:
		return s, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("%q is not a valid choice.", raw))
}

// Task is a follow-up item on an application. ClientID mirrors the owning
// application's client so ownership scoping stays a single-collection query.
type Task struct {
	ID            string     `json:"id" bson:"_id"`
	ApplicationID string     `json:"application_id" bson:"application_id"`
	ClientID      string     `json:"-" bson:"client_id"`
	Title         string     `json:"title" bson:"title"`
	Description   string     `json:"description" bson:"description"`
	Status        TaskStatus `json:"status" bson:"status"`
	AssignedToID  *string    `json:"assigned_to_id" bson:"assigned_to_id,omitempty"`
	DueDate       *time.Time `json:"due_date" bson:"due_date,omitempty"`
	CompletedAt   *time.Time `json:"completed_at" bson:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
}

// Complete marks the task DONE. A cancelled task is completed as well; callers
// decide whether that is meaningful.
func (t *Task) Complete(now time.Time) {
	t.Status = TaskDone
	completed := now
	t.CompletedAt = &completed
}
