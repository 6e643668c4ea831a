package services

import (
	"github.com/insightly-hq/insightly/internal/models"
	"gorm.io/gorm"
)

// Principal is the authenticated identity making a request. It is passed
// explicitly into every core operation instead of being read from request
// context, so the services stay testable in isolation.
type Principal struct {
	UserID uint
	Role   models.RoleName
}

// Capabilities describes what a role may see and do. Handlers and services
// consult this descriptor instead of branching on role strings.
type Capabilities struct {
	SeeAllProjects bool // every project, regardless of assignment
	SeeAllTasks    bool // every task, regardless of assignment
	// ProjectTaskView: client-style visibility — all tasks of assigned
	// projects, no per-task filtering.
	ProjectTaskView bool
	// OwnTasksOnly: team-member visibility — task lists and the project
	// detail task list show only the principal's own assignments.
	OwnTasksOnly bool

	ManageProjects    bool // create/edit/delete projects
	ManageTasks       bool // create/edit/delete tasks
	ManageUsers       bool // user and role administration
	ManageAssignments bool // reconcile project/task assignment sets
	// ToggleAssignedTaskStatus: may flip Completed ⇄ InProgress on a task
	// the principal is assigned to.
	ToggleAssignedTaskStatus bool
}

// CapabilitiesFor evaluates the role-indexed permission table. Unknown roles
// get an empty descriptor and therefore see nothing.
func CapabilitiesFor(role models.RoleName) Capabilities {
	switch role {
	case models.RoleAdmin:
		return Capabilities{
			SeeAllProjects:           true,
			SeeAllTasks:              true,
			ManageProjects:           true,
			ManageTasks:              true,
			ManageUsers:              true,
			ManageAssignments:        true,
			ToggleAssignedTaskStatus: true,
		}
	case models.RoleTeamMember:
		return Capabilities{
			OwnTasksOnly:             true,
			ToggleAssignedTaskStatus: true,
		}
	case models.RoleClient:
		return Capabilities{
			ProjectTaskView: true,
		}
	default:
		return Capabilities{}
	}
}

// ScopeProjects narrows a projects query to what the principal may list.
// Listing silently filters; it never errors.
func ScopeProjects(db *gorm.DB, p Principal) *gorm.DB {
	if CapabilitiesFor(p.Role).SeeAllProjects {
		return db
	}
	return db.Where(
		"projects.id IN (SELECT project_id FROM project_assignments WHERE user_id = ?)",
		p.UserID,
	)
}

// ScopeTasks narrows a task query to what the principal may list: admins see
// everything, team members their own assignments, clients every task of
// their assigned projects.
func ScopeTasks(db *gorm.DB, p Principal) *gorm.DB {
	caps := CapabilitiesFor(p.Role)
	switch {
	case caps.SeeAllTasks:
		return db
	case caps.OwnTasksOnly:
		return db.Where(
			"task_items.id IN (SELECT task_item_id FROM task_assignments WHERE user_id = ?)",
			p.UserID,
		)
	case caps.ProjectTaskView:
		return db.Where(
			"task_items.project_id IN (SELECT project_id FROM project_assignments WHERE user_id = ?)",
			p.UserID,
		)
	default:
		return db.Where("1 = 0")
	}
}
