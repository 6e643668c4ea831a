package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/insightly-hq/insightly/internal/models"
	"github.com/insightly-hq/insightly/pkg/response"
	"gorm.io/gorm"
)

type TaskService struct {
	db          *gorm.DB
	assignments *AssignmentService
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db, assignments: NewAssignmentService(db)}
}

type TaskListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	ProjectID uint   `form:"project_id"`
	Status    string `form:"status"`
	Q         string `form:"q"`
}

type TaskListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.TaskItem `json:"items"`
}

type CreateTaskRequest struct {
	Title     string `json:"title" binding:"required"`
	Status    string `json:"status"`
	DueDate   string `json:"due_date"`
	ProjectID uint   `json:"project_id" binding:"required"`
	Assignees []uint `json:"assignees"`
}

type UpdateTaskRequest struct {
	Title   string  `json:"title"`
	Status  string  `json:"status"`
	DueDate *string `json:"due_date"` // empty string clears the due date
	// Assignees nil leaves the assignment set unchanged; an empty slice
	// clears it.
	Assignees *[]uint `json:"assignees"`
}

// List returns the tasks visible to the principal, newest due date first.
func (s *TaskService) List(p Principal, req *TaskListRequest) (*TaskListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	query := ScopeTasks(s.db.Model(&models.TaskItem{}), p)

	if req.ProjectID != 0 {
		query = query.Where("project_id = ?", req.ProjectID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if q := strings.TrimSpace(req.Q); q != "" {
		query = query.Where("title LIKE ?", "%"+q+"%")
	}

	var total int64
	query.Count(&total)

	var tasks []models.TaskItem
	offset := (req.Page - 1) * req.PageSize
	err := query.Preload("Project").Preload("Assignments").Preload("Assignments.User").
		Offset(offset).Limit(req.PageSize).
		Order("due_date DESC").Order("title ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return &TaskListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    tasks,
	}, nil
}

// Get loads one task. An existing task outside the principal's visibility is
// Forbidden, never NotFound.
func (s *TaskService) Get(p Principal, id uint) (*models.TaskItem, error) {
	var task models.TaskItem
	err := s.db.Preload("Project").Preload("Assignments").Preload("Assignments.User").
		First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	if err := s.checkTaskVisible(p, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) checkTaskVisible(p Principal, task *models.TaskItem) error {
	caps := CapabilitiesFor(p.Role)
	switch {
	case caps.SeeAllTasks:
		return nil
	case caps.OwnTasksOnly:
		for _, a := range task.Assignments {
			if a.UserID == p.UserID {
				return nil
			}
		}
		return response.NewForbidden("not assigned to this task")
	case caps.ProjectTaskView:
		var count int64
		err := s.db.Model(&models.ProjectAssignment{}).
			Where("project_id = ? AND user_id = ?", task.ProjectID, p.UserID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return response.NewForbidden("not assigned to this task's project")
	default:
		return response.NewForbidden("no task access")
	}
}

// Create validates and stores a new task, then reconciles any requested
// initial assignees.
func (s *TaskService) Create(req *CreateTaskRequest) (*models.TaskItem, error) {
	due, appErr := validateTaskInput(req.Title, req.Status, req.DueDate)
	if appErr != nil {
		return nil, appErr
	}

	var count int64
	if err := s.db.Model(&models.Project{}).Where("id = ?", req.ProjectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, response.NewValidation("project_id", "must reference an existing project")
	}

	status := req.Status
	if status == "" {
		status = models.TaskStatusPending
	}

	task := models.TaskItem{
		Title:     strings.TrimSpace(req.Title),
		Status:    status,
		DueDate:   due,
		ProjectID: req.ProjectID,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	if len(req.Assignees) > 0 {
		if _, err := s.assignments.ReconcileTaskAssignees(task.ID, req.Assignees); err != nil {
			return nil, err
		}
	}

	return &task, nil
}

// Update applies partial changes, with the same re-check-on-failure policy as
// projects, and reconciles assignees when the request carries a set.
func (s *TaskService) Update(id uint, req *UpdateTaskRequest) (*models.TaskItem, error) {
	var task models.TaskItem
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	title := task.Title
	if req.Title != "" {
		title = req.Title
	}
	status := task.Status
	if req.Status != "" {
		status = req.Status
	}
	dueStr := ""
	if task.DueDate != nil {
		dueStr = task.DueDate.Format(dateLayout)
	}
	if req.DueDate != nil {
		dueStr = *req.DueDate
	}

	due, appErr := validateTaskInput(title, status, dueStr)
	if appErr != nil {
		return nil, appErr
	}

	updates := map[string]interface{}{
		"title":    strings.TrimSpace(title),
		"status":   status,
		"due_date": due,
	}

	if err := s.db.Model(&task).Updates(updates).Error; err != nil {
		return nil, s.recheckExistence(id, err)
	}

	if req.Assignees != nil {
		if _, err := s.assignments.ReconcileTaskAssignees(id, *req.Assignees); err != nil {
			return nil, err
		}
	}

	return &task, nil
}

func (s *TaskService) recheckExistence(id uint, writeErr error) error {
	var count int64
	s.db.Model(&models.TaskItem{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return response.NewNotFound("task not found")
	}
	return writeErr
}

// Delete removes the task and its assignment rows in one transaction.
func (s *TaskService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var task models.TaskItem
		if err := tx.First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("task not found")
			}
			return err
		}

		if err := tx.Where("task_item_id = ?", id).
			Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&task).Error
	})
}

// SetStatus flips a task between completed and in-progress. Admins may flip
// any task; team members only tasks they are assigned to.
func (s *TaskService) SetStatus(p Principal, id uint, completed bool) (*models.TaskItem, error) {
	var task models.TaskItem
	if err := s.db.Preload("Assignments").First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	caps := CapabilitiesFor(p.Role)
	allowed := caps.ManageTasks
	if !allowed && caps.ToggleAssignedTaskStatus {
		for _, a := range task.Assignments {
			if a.UserID == p.UserID {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return nil, response.NewForbidden("only assignees can change this task's status")
	}

	status := models.TaskStatusInProgress
	if completed {
		status = models.TaskStatusCompleted
	}

	if err := s.db.Model(&task).Update("status", status).Error; err != nil {
		return nil, err
	}
	task.Status = status
	return &task, nil
}

func validateTaskInput(title, status, dueDate string) (*time.Time, *response.AppError) {
	titleLen := utf8.RuneCountInString(strings.TrimSpace(title))
	if titleLen < models.TaskTitleMinLen || titleLen > models.TaskTitleMaxLen {
		return nil, response.NewValidation("title", "must be between 3 and 200 characters")
	}
	if status != "" && !models.ValidTaskStatus(status) {
		return nil, response.NewValidation("status", "must be pending, in_progress or completed")
	}

	var due *time.Time
	if dueDate != "" {
		d, err := time.Parse(dateLayout, dueDate)
		if err != nil {
			return nil, response.NewValidation("due_date", "must be a date in YYYY-MM-DD format")
		}
		due = &d
	}

	return due, nil
}
