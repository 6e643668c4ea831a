package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a system user. Role memberships live in the role registry
// (roles/user_roles), so a user may hold several roles; visibility decisions
// use PrimaryRole.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password      string         `gorm:"size:255" json:"-"` // Hashed, empty for LDAP users
	AuthType      string         `gorm:"size:20;default:local" json:"auth_type"` // local, ldap
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	SecurityStamp string         `gorm:"size:64" json:"-"` // Rotated on role change to invalidate issued tokens
	LastLogin     *time.Time     `json:"last_login"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

func (User) TableName() string { return "users" }
