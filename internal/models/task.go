package models

import (
	"strings"
	"time"
)

// TaskStatus represents the lifecycle status of a task
type TaskStatus string

const (
	StatusToDo       TaskStatus = "TO_DO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusDone       TaskStatus = "DONE"
)

// ParseStatus normalizes a raw status string to its canonical uppercase
// form. Status comparisons are case-insensitive everywhere in the system.
func ParseStatus(raw string) (TaskStatus, bool) {
	s := TaskStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusToDo, StatusInProgress, StatusReview, StatusDone:
		return s, true
	}
	return "", false
}

// Task represents a task in the system.
//
// AssignedAt is set the first time assigned_to becomes non-null and never
// overwritten. ActualClosure is set exactly when the task reaches DONE.
// UpdatedAt is managed by the general update path only (the dedicated
// status-transition path does not bump it), so gorm's automatic timestamp
// handling is disabled for it. Version backs optimistic locking on writes.
type Task struct {
	ID              uint       `json:"id" gorm:"column:t_id;primaryKey;autoIncrement"`
	Title           string     `json:"title" gorm:"not null"`
	Description     string     `json:"description"`
	Status          TaskStatus `json:"status" gorm:"index"`
	Priority        string     `json:"priority"`
	AssignedTo      *uint      `json:"assigned_to" gorm:"index"`
	AssignedBy      *uint      `json:"assigned_by"`
	Reviewer        *uint      `json:"reviewer"`
	CreatedBy       uint       `json:"created_by"`
	UpdatedBy       *uint      `json:"updated_by"`
	AssignedAt      *time.Time `json:"assigned_at"`
	ExpectedClosure *time.Time `json:"expected_closure"`
	ActualClosure   *time.Time `json:"actual_closure"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       *time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
	Version         uint       `json:"-" gorm:"not null;default:1"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
