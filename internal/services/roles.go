package services

import (
	"errors"

	"github.com/insightly-hq/insightly/internal/models"
	"gorm.io/gorm"
)

// UserIDsInRole returns the ids of all users holding the given role. A role
// missing from the registry yields an empty set rather than an error, so
// computations depending on "who is a team member" never misclassify other
// roles when the registry is incomplete.
func UserIDsInRole(db *gorm.DB, role models.RoleName) ([]uint, error) {
	var r models.Role
	if err := db.Where("name = ?", string(role)).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var ids []uint
	if err := db.Table("user_roles").Where("role_id = ?", r.ID).Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountUsersInRole counts role members; 0 for a role missing from the registry.
func CountUsersInRole(db *gorm.DB, role models.RoleName) (int64, error) {
	var r models.Role
	if err := db.Where("name = ?", string(role)).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	var count int64
	if err := db.Table("user_roles").Where("role_id = ?", r.ID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// RolesForUser loads a user's role memberships.
func RolesForUser(db *gorm.DB, userID uint) ([]models.Role, error) {
	var roles []models.Role
	err := db.
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// PrimaryRoleForUser resolves the user's dominant role for visibility.
func PrimaryRoleForUser(db *gorm.DB, userID uint) (models.RoleName, error) {
	roles, err := RolesForUser(db, userID)
	if err != nil {
		return "", err
	}
	return models.PrimaryRole(roles), nil
}
