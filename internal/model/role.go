package model

import "fmt"

// Role selects one of the three independent account tables.
type Role string

const (
	RoleAdopter   Role = "adopter"
	RoleVolunteer Role = "volunteer"
	RoleStaff     Role = "staff"
)

// ResetLookupOrder is the priority order in which password-reset requests
// search the role tables for a matching email. First match wins.
var ResetLookupOrder = []Role{RoleAdopter, RoleVolunteer, RoleStaff}

// ParseRole converts a path/request string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdopter, RoleVolunteer, RoleStaff:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// TableName returns the database table backing the role.
func (r Role) TableName() string {
	switch r {
	case RoleAdopter:
		return "adopters"
	case RoleVolunteer:
		return "volunteers"
	case RoleStaff:
		return "staff_members"
	}
	return string(r)
}

func (r Role) String() string {
	return string(r)
}

// Staff positions refine the base staff role.
const (
	StaffPositionAdmin       = "admin"
	StaffPositionManager     = "manager"
	StaffPositionCoordinator = "coordinator"
	StaffPositionStaff       = "staff"
)

// Account lifecycle statuses. The vocabulary is role-dependent: adopters use
// active/inactive/suspended, volunteers active/inactive/pending, staff
// active/inactive.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusPending   = "pending"
	StatusSuspended = "suspended"
)

// DefaultStatus returns the status a freshly registered account starts in.
// Volunteers begin pending until their background check clears.
func (r Role) DefaultStatus() string {
	if r == RoleVolunteer {
		return StatusPending
	}
	return StatusActive
}
