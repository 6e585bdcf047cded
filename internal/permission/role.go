// AngelaMos | 2026
// role.go

package permission

import (
	"slices"
)

type Role string

const (
	RoleViewer     Role = "VIEWER"
	RoleClient     Role = "CLIENT"
	RoleManager    Role = "MANAGER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Roles is ordered from lowest to highest privilege. Comparisons use the
// index in this list.
var Roles = []Role{
	RoleViewer,
	RoleClient,
	RoleManager,
	RoleAdmin,
	RoleSuperAdmin,
}

var fullSet = NewSet(All...)

var roleDefaults = map[Role]Set{
	RoleSuperAdmin: fullSet,
	RoleAdmin:      fullSet.Without(ManageUsers),
	RoleManager: NewSet(
		ManageLeads,
		ManageInquiries,
		ManageProjects,
		ViewAnalytics,
		ViewOwnData,
	),
	RoleClient: NewSet(ViewOwnData),
	RoleViewer: NewSet(ViewAnalytics),
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

func (r Role) String() string {
	return string(r)
}

// Level is the position of the role in Roles, or -1 for unknown roles.
func (r Role) Level() int {
	return slices.Index(Roles, r)
}

// RolePermissions returns the immutable default set for a role.
func RolePermissions(r Role) Set {
	return roleDefaults[r]
}

// FullSet is every permission, the SUPER_ADMIN default.
func FullSet() Set {
	return fullSet
}

// EffectivePermissions is the union of the role default and custom grants.
// Custom grants never remove a default entry.
func EffectivePermissions(r Role, custom Set) Set {
	return RolePermissions(r).Union(custom)
}

// IsAtLeastRole reports whether role sits at or above minimum. Unknown roles
// never satisfy the check.
func IsAtLeastRole(role, minimum Role) bool {
	lvl := role.Level()
	return lvl >= 0 && lvl >= minimum.Level()
}

// IsAdminRole backs the legacy isAdmin column.
func IsAdminRole(r Role) bool {
	return IsAtLeastRole(r, RoleAdmin)
}

// SanitizeGrants strips permissions only SUPER_ADMIN may hold.
func SanitizeGrants(s Set) Set {
	return s.Without(ManageUsers)
}
