package services

import (
	"math"
	"time"

	"github.com/insightly-hq/insightly/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardSnapshot is the admin overview: one consistent read of the counts
// and shortlists the landing page renders.
type DashboardSnapshot struct {
	TotalUsers     int64 `json:"total_users"`
	AdminCount     int64 `json:"admin_count"`
	TeamCount      int64 `json:"team_count"`
	ClientCount    int64 `json:"client_count"`
	TotalProjects  int64 `json:"total_projects"`
	ActiveProjects int64 `json:"active_projects"`
	RecentlyAdded  int64 `json:"recently_added_projects"`
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	// CompletionPercent is completed over total, one decimal place, 0 when
	// there are no tasks at all.
	CompletionPercent float64 `json:"completion_percent"`

	RecentProjects []models.Project  `json:"recent_projects"`
	OverdueTasks   []models.TaskItem `json:"overdue_tasks"`
}

// Snapshot assembles the admin dashboard from live counts. Callers gate it to
// admins; the aggregation itself is role-free.
func (s *DashboardService) Snapshot() (*DashboardSnapshot, error) {
	snap := &DashboardSnapshot{}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if err := s.db.Model(&models.User{}).Count(&snap.TotalUsers).Error; err != nil {
		return nil, err
	}

	var err error
	if snap.AdminCount, err = CountUsersInRole(s.db, models.RoleAdmin); err != nil {
		return nil, err
	}
	if snap.TeamCount, err = CountUsersInRole(s.db, models.RoleTeamMember); err != nil {
		return nil, err
	}
	if snap.ClientCount, err = CountUsersInRole(s.db, models.RoleClient); err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Project{}).Count(&snap.TotalProjects).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Project{}).
		Where("end_date IS NULL OR end_date >= ?", today).
		Count(&snap.ActiveProjects).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Project{}).
		Where("created_at >= ?", now.AddDate(0, 0, -30)).
		Count(&snap.RecentlyAdded).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.TaskItem{}).Count(&snap.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.TaskItem{}).
		Where("status = ?", models.TaskStatusCompleted).
		Count(&snap.CompletedTasks).Error; err != nil {
		return nil, err
	}
	snap.CompletionPercent = CompletionPercent(snap.CompletedTasks, snap.TotalTasks)

	if err := s.db.Order("created_at DESC").Limit(5).
		Find(&snap.RecentProjects).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Project").
		Where("due_date IS NOT NULL AND due_date < ? AND status <> ?", today, models.TaskStatusCompleted).
		Order("due_date ASC").Limit(5).
		Find(&snap.OverdueTasks).Error; err != nil {
		return nil, err
	}

	return snap, nil
}

// CompletionPercent is completed/total as a percentage rounded to one decimal
// place. Zero tasks means 0, not NaN.
func CompletionPercent(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

// ProjectActive reports whether a project counts as active on a given day:
// no end date, or an end date on or after that day.
func ProjectActive(endDate *time.Time, day time.Time) bool {
	if endDate == nil {
		return true
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return !endDate.Before(day)
}
