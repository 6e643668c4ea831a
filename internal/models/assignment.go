package models

import "time"

// ProjectAssignment links a user (team member or client; the role comes from
// the registry and is never stored here) to a project.
type ProjectAssignment struct {
	ProjectID  uint      `gorm:"primaryKey;autoIncrement:false" json:"project_id"`
	UserID     uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

func (ProjectAssignment) TableName() string { return "project_assignments" }

// TaskAssignment links a team member to a task. Only users already on the
// task's project team are eligible; reconciliation enforces this.
type TaskAssignment struct {
	TaskItemID uint      `gorm:"primaryKey;autoIncrement:false" json:"task_item_id"`
	UserID     uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

func (TaskAssignment) TableName() string { return "task_assignments" }
