package models

import (
	"time"

	"gorm.io/gorm"
)

// Project name/description length bounds enforced by the project service.
const (
	ProjectNameMinLen        = 3
	ProjectNameMaxLen        = 100
	ProjectDescriptionMaxLen = 500
)

// Project owns its tasks and its assignment rows. Rows are soft-deleted, so
// the project service deletes tasks and assignments in the same transaction
// as the project itself.
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	StartDate   time.Time      `gorm:"not null" json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Tasks       []TaskItem          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Assignments []ProjectAssignment `gorm:"foreignKey:ProjectID" json:"assignments,omitempty"`
}

func (Project) TableName() string { return "projects" }
