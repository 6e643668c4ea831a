package services

import (
	"errors"
	"sort"
	"time"

	"github.com/insightly-hq/insightly/internal/models"
	"github.com/insightly-hq/insightly/pkg/response"
	"gorm.io/gorm"
)

// AssignmentDiff is the minimal set of operations that moves an assignment
// relation from its current state to a desired state.
type AssignmentDiff struct {
	ToAdd    []uint `json:"to_add"`
	ToRemove []uint `json:"to_remove"`
}

// Empty reports whether applying the diff would change nothing.
func (d AssignmentDiff) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// DiffAssignments computes the add/remove sets for one reconciliation:
//
//	effective desired = desired ∩ eligible  (ineligible ids silently dropped)
//	toRemove = (current ∩ roleClass) − effective desired
//	toAdd    = effective desired − current
//
// Only rows inside roleClass are removal candidates, so reconciling one role
// class (say team members) never touches the other class's rows (clients) on
// the same entity. Results are sorted for deterministic application.
func DiffAssignments(current, desired, eligible, roleClass []uint) AssignmentDiff {
	currentSet := toIDSet(current)
	classSet := toIDSet(roleClass)

	want := make(map[uint]struct{}, len(desired))
	eligibleSet := toIDSet(eligible)
	for _, id := range desired {
		if _, ok := eligibleSet[id]; ok {
			want[id] = struct{}{}
		}
	}

	var diff AssignmentDiff
	for id := range currentSet {
		_, inClass := classSet[id]
		_, wanted := want[id]
		if inClass && !wanted {
			diff.ToRemove = append(diff.ToRemove, id)
		}
	}
	for id := range want {
		if _, ok := currentSet[id]; !ok {
			diff.ToAdd = append(diff.ToAdd, id)
		}
	}

	sort.Slice(diff.ToAdd, func(i, j int) bool { return diff.ToAdd[i] < diff.ToAdd[j] })
	sort.Slice(diff.ToRemove, func(i, j int) bool { return diff.ToRemove[i] < diff.ToRemove[j] })
	return diff
}

func toIDSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func intersectIDs(a, b []uint) []uint {
	bSet := toIDSet(b)
	var out []uint
	for _, id := range a {
		if _, ok := bSet[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// AssignmentService reconciles the project↔user and task↔user relations.
// Each call is the sole source of truth for the desired state at that moment
// and applies its removals and additions in one transaction.
type AssignmentService struct {
	db *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// ReconcileResult reports what a reconciliation changed.
type ReconcileResult struct {
	Added   []uint `json:"added"`
	Removed []uint `json:"removed"`
}

// ReconcileProjectTeam makes the project's team-member assignment rows match
// desired. Ids without the TeamMember role are dropped; client rows on the
// same project are never touched.
func (s *AssignmentService) ReconcileProjectTeam(projectID uint, desired []uint) (*ReconcileResult, error) {
	return s.reconcileProjectRole(projectID, desired, models.RoleTeamMember)
}

// ReconcileProjectClients makes the project's client assignment rows match
// desired, leaving team-member rows untouched.
func (s *AssignmentService) ReconcileProjectClients(projectID uint, desired []uint) (*ReconcileResult, error) {
	return s.reconcileProjectRole(projectID, desired, models.RoleClient)
}

func (s *AssignmentService) reconcileProjectRole(projectID uint, desired []uint, role models.RoleName) (*ReconcileResult, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	roleIDs, err := UserIDsInRole(s.db, role)
	if err != nil {
		return nil, err
	}

	var current []uint
	if err := s.db.Model(&models.ProjectAssignment{}).
		Where("project_id = ?", projectID).
		Pluck("user_id", &current).Error; err != nil {
		return nil, err
	}

	diff := DiffAssignments(current, desired, roleIDs, roleIDs)
	if err := s.applyProjectDiff(projectID, diff); err != nil {
		return nil, err
	}

	return &ReconcileResult{Added: diff.ToAdd, Removed: diff.ToRemove}, nil
}

// ReconcileTaskAssignees makes the task's assignment rows match desired.
// Eligible assignees are TeamMember-role users already on the task's project
// team; everyone else in desired is dropped silently.
func (s *AssignmentService) ReconcileTaskAssignees(taskID uint, desired []uint) (*ReconcileResult, error) {
	var task models.TaskItem
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	teamIDs, err := UserIDsInRole(s.db, models.RoleTeamMember)
	if err != nil {
		return nil, err
	}

	var projectTeam []uint
	if err := s.db.Model(&models.ProjectAssignment{}).
		Where("project_id = ?", task.ProjectID).
		Pluck("user_id", &projectTeam).Error; err != nil {
		return nil, err
	}
	eligible := intersectIDs(projectTeam, teamIDs)

	var current []uint
	if err := s.db.Model(&models.TaskAssignment{}).
		Where("task_item_id = ?", taskID).
		Pluck("user_id", &current).Error; err != nil {
		return nil, err
	}

	diff := DiffAssignments(current, desired, eligible, teamIDs)
	if err := s.applyTaskDiff(taskID, diff); err != nil {
		return nil, err
	}

	return &ReconcileResult{Added: diff.ToAdd, Removed: diff.ToRemove}, nil
}

func (s *AssignmentService) applyProjectDiff(projectID uint, diff AssignmentDiff) error {
	if diff.Empty() {
		return nil
	}

	now := time.Now().UTC()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(diff.ToRemove) > 0 {
			if err := tx.Where("project_id = ? AND user_id IN ?", projectID, diff.ToRemove).
				Delete(&models.ProjectAssignment{}).Error; err != nil {
				return err
			}
		}
		for _, userID := range diff.ToAdd {
			row := models.ProjectAssignment{ProjectID: projectID, UserID: userID, AssignedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *AssignmentService) applyTaskDiff(taskID uint, diff AssignmentDiff) error {
	if diff.Empty() {
		return nil
	}

	now := time.Now().UTC()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(diff.ToRemove) > 0 {
			if err := tx.Where("task_item_id = ? AND user_id IN ?", taskID, diff.ToRemove).
				Delete(&models.TaskAssignment{}).Error; err != nil {
				return err
			}
		}
		for _, userID := range diff.ToAdd {
			row := models.TaskAssignment{TaskItemID: taskID, UserID: userID, AssignedAt: now}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
