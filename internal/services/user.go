package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/insightly-hq/insightly/internal/models"
	"github.com/insightly-hq/insightly/internal/utils"
	"github.com/insightly-hq/insightly/pkg/response"
	"gorm.io/gorm"
)

// UserService is the admin-facing user and role administration surface.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Role     string `form:"role"`
	Q        string `form:"q"`
}

type UserListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.User `json:"items"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
	IsActive *bool  `json:"is_active"`
}

func (s *UserService) List(req *UserListRequest) (*UserListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.User{})

	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			return nil, response.NewValidation("role", "must be Admin, TeamMember or Client")
		}
		query = query.Where(
			"id IN (SELECT user_id FROM user_roles JOIN roles ON roles.id = user_roles.role_id WHERE roles.name = ?)",
			req.Role,
		)
	}
	if q := strings.TrimSpace(req.Q); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Roles").Offset(offset).Limit(req.PageSize).Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	return &UserListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    users,
	}, nil
}

// ListRoles returns the role registry rows.
func (s *UserService) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Roles").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, response.NewValidation("role", "must be Admin, TeamMember or Client")
	}

	var count int64
	s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("email already registered")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		Password:      hashedPassword,
		AuthType:      "local",
		IsActive:      true,
		SecurityStamp: uuid.NewString(),
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return grantRole(tx, user.ID, models.RoleName(req.Role))
	}); err != nil {
		return nil, err
	}

	return s.Get(user.ID)
}

func (s *UserService) Update(id uint, req *UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Email != "" && req.Email != user.Email {
		var count int64
		s.db.Model(&models.User{}).Where("email = ? AND id <> ?", req.Email, id).Count(&count)
		if count > 0 {
			return nil, response.NewConflict("email already registered")
		}
		updates["email"] = req.Email
	}
	if req.Password != "" {
		hashedPassword, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashedPassword
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
		if !*req.IsActive {
			// Disabling an account also invalidates its issued tokens.
			updates["security_stamp"] = uuid.NewString()
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(id)
}

// Delete removes a user and their assignment rows. The acting admin cannot
// delete their own account.
func (s *UserService) Delete(actorID, id uint) error {
	if actorID == id {
		return response.NewBadRequest("cannot delete your own account")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("user not found")
			}
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.ProjectAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}

// AssignRole replaces the user's role memberships with the single given role
// and rotates the security stamp, so tokens issued under the old role stop
// working on their next request.
func (s *UserService) AssignRole(actorID, id uint, roleName string) (*models.User, error) {
	if !models.ValidRole(roleName) {
		return nil, response.NewValidation("role", "must be Admin, TeamMember or Client")
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	if actorID == id && roleName != string(models.RoleAdmin) {
		return nil, response.NewBadRequest("cannot remove your own admin role")
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := grantRole(tx, id, models.RoleName(roleName)); err != nil {
			return err
		}
		return tx.Model(&user).Update("security_stamp", uuid.NewString()).Error
	}); err != nil {
		return nil, err
	}

	return s.Get(id)
}
