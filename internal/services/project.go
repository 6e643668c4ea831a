package services

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/insightly-hq/insightly/internal/models"
	"github.com/insightly-hq/insightly/pkg/response"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Q        string `form:"q"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date"`
}

type UpdateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"` // empty string clears the end date
}

// ProjectDetail is the project view with assignment rows resolved into the
// two role classes and the task list already narrowed per the caller's role.
type ProjectDetail struct {
	Project     models.Project    `json:"project"`
	TeamMembers []models.User     `json:"team_members"`
	Clients     []models.User     `json:"clients"`
	Tasks       []models.TaskItem `json:"tasks"`
}

// List returns the projects the principal may see, paginated and optionally
// filtered by a name/description search term.
func (s *ProjectService) List(p Principal, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := ScopeProjects(s.db.Model(&models.Project{}), p)

	if q := strings.TrimSpace(req.Q); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// Get returns the project detail view. A principal without visibility into
// an existing project gets Forbidden; a nonexistent id gets NotFound.
func (s *ProjectService) Get(p Principal, id uint) (*ProjectDetail, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	var assignedIDs []uint
	if err := s.db.Model(&models.ProjectAssignment{}).
		Where("project_id = ?", id).
		Pluck("user_id", &assignedIDs).Error; err != nil {
		return nil, err
	}

	caps := CapabilitiesFor(p.Role)
	if !caps.SeeAllProjects {
		if _, ok := toIDSet(assignedIDs)[p.UserID]; !ok {
			return nil, response.NewForbidden("not assigned to this project")
		}
	}

	teamIDs, err := UserIDsInRole(s.db, models.RoleTeamMember)
	if err != nil {
		return nil, err
	}
	clientIDs, err := UserIDsInRole(s.db, models.RoleClient)
	if err != nil {
		return nil, err
	}

	teamMembers, err := s.loadUsers(intersectIDs(assignedIDs, teamIDs))
	if err != nil {
		return nil, err
	}
	clients, err := s.loadUsers(intersectIDs(assignedIDs, clientIDs))
	if err != nil {
		return nil, err
	}

	taskQuery := s.db.Where("project_id = ?", id).Preload("Assignments")
	if caps.OwnTasksOnly {
		taskQuery = taskQuery.Where(
			"id IN (SELECT task_item_id FROM task_assignments WHERE user_id = ?)", p.UserID)
	}
	var tasks []models.TaskItem
	if err := taskQuery.Order("due_date DESC").Order("title ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return &ProjectDetail{
		Project:     project,
		TeamMembers: teamMembers,
		Clients:     clients,
		Tasks:       tasks,
	}, nil
}

func (s *ProjectService) loadUsers(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// Create validates and stores a new project.
func (s *ProjectService) Create(req *CreateProjectRequest) (*models.Project, error) {
	start, end, appErr := validateProjectInput(req.Name, req.Description, req.StartDate, req.EndDate)
	if appErr != nil {
		return nil, appErr
	}

	project := models.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartDate:   *start,
		EndDate:     end,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// Update applies partial changes. On a write failure the entity's existence
// is re-checked: gone means NotFound, otherwise the error propagates with no
// retry.
func (s *ProjectService) Update(id uint, req *UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	name := project.Name
	if req.Name != "" {
		name = req.Name
	}
	description := project.Description
	if req.Description != nil {
		description = *req.Description
	}
	startStr := project.StartDate.Format(dateLayout)
	if req.StartDate != "" {
		startStr = req.StartDate
	}
	endStr := ""
	if project.EndDate != nil {
		endStr = project.EndDate.Format(dateLayout)
	}
	if req.EndDate != nil {
		endStr = *req.EndDate
	}

	start, end, appErr := validateProjectInput(name, description, startStr, endStr)
	if appErr != nil {
		return nil, appErr
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(name),
		"description": description,
		"start_date":  *start,
		"end_date":    end,
	}

	if err := s.db.Model(&project).Updates(updates).Error; err != nil {
		return nil, s.recheckExistence(id, err)
	}

	return &project, nil
}

// Delete removes the project and, in the same transaction, its tasks and all
// assignment rows hanging off either.
func (s *ProjectService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("project not found")
			}
			return err
		}

		var taskIDs []uint
		if err := tx.Model(&models.TaskItem{}).
			Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_item_id IN ?", taskIDs).
				Delete(&models.TaskAssignment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).
				Delete(&models.TaskItem{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).
			Delete(&models.ProjectAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})
}

func (s *ProjectService) recheckExistence(id uint, writeErr error) error {
	var count int64
	s.db.Model(&models.Project{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return response.NewNotFound("project not found")
	}
	return writeErr
}

// validateProjectInput enforces the project field constraints and returns
// parsed dates. No mutation is attempted when it fails.
func validateProjectInput(name, description, startDate, endDate string) (*time.Time, *time.Time, *response.AppError) {
	// Bounds count characters, not bytes, so multibyte names measure the
	// same as ASCII ones.
	nameLen := utf8.RuneCountInString(strings.TrimSpace(name))
	if nameLen < models.ProjectNameMinLen || nameLen > models.ProjectNameMaxLen {
		return nil, nil, response.NewValidation("name", "must be between 3 and 100 characters")
	}
	if utf8.RuneCountInString(description) > models.ProjectDescriptionMaxLen {
		return nil, nil, response.NewValidation("description", "can be at most 500 characters")
	}

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, nil, response.NewValidation("start_date", "must be a date in YYYY-MM-DD format")
	}

	var end *time.Time
	if endDate != "" {
		e, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return nil, nil, response.NewValidation("end_date", "must be a date in YYYY-MM-DD format")
		}
		if e.Before(start) {
			return nil, nil, response.NewValidation("end_date", "cannot be earlier than start date")
		}
		end = &e
	}

	return &start, end, nil
}
