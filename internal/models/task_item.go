package models

import (
	"time"

	"gorm.io/gorm"
)

// Task title length bounds enforced by the task service.
const (
	TaskTitleMinLen = 3
	TaskTitleMaxLen = 200
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskItem belongs to exactly one project and is deleted with it.
type TaskItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Status    string         `gorm:"size:20;default:pending;not null" json:"status"`
	DueDate   *time.Time     `gorm:"index" json:"due_date"`
	ProjectID uint           `gorm:"index;not null" json:"project_id"`
	Project   *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Assignments []TaskAssignment `gorm:"foreignKey:TaskItemID" json:"assignments,omitempty"`
}

func (TaskItem) TableName() string { return "task_items" }
