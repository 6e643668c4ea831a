package models

// RoleName identifies one of the three application roles.
type RoleName string

const (
	RoleAdmin      RoleName = "Admin"
	RoleTeamMember RoleName = "TeamMember"
	RoleClient     RoleName = "Client"
)

// Role is a row in the role registry.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

func (Role) TableName() string { return "roles" }

// rolePriority orders roles for primary-role resolution. Admin wins because
// it is strictly broader; TeamMember outranks Client.
var rolePriority = map[RoleName]int{
	RoleAdmin:      0,
	RoleTeamMember: 1,
	RoleClient:     2,
}

// ValidRole reports whether name is a known role.
func ValidRole(name string) bool {
	_, ok := rolePriority[RoleName(name)]
	return ok
}

// PrimaryRole resolves a user's dominant role from their role memberships.
// Users with no recognized role resolve to Client, the least-privileged view.
func PrimaryRole(roles []Role) RoleName {
	best := RoleClient
	bestPriority := len(rolePriority)
	for _, r := range roles {
		if p, ok := rolePriority[RoleName(r.Name)]; ok && p < bestPriority {
			best = RoleName(r.Name)
			bestPriority = p
		}
	}
	return best
}
