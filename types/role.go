package types

import "slices"

// Role is the numeric role_id carried in access tokens.
type Role int

const (
	RoleSuperAdmin Role = iota + 1
	RoleDirector
	RoleManagingDirector
	RoleManager
	RoleUser
)

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "superadmin"
	case RoleDirector:
		return "director"
	case RoleManagingDirector:
		return "managing_director"
	case RoleManager:
		return "manager"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}

func (r Role) Valid() bool {
	return r >= RoleSuperAdmin && r <= RoleUser
}

// IsTopTier reports whether r is director or managing director.
func (r Role) IsTopTier() bool {
	return r == RoleDirector || r == RoleManagingDirector
}

type Capability int

const (
	CapViewAllTasks Capability = iota
	CapViewAllMeetings
	CapDeleteAnyTask
	CapManageTasks
	CapManageNotifications
	CapAssignAnyone
)

var adminTiers = []Role{RoleSuperAdmin, RoleDirector, RoleManagingDirector}

var managerOrAbove = []Role{RoleSuperAdmin, RoleDirector, RoleManagingDirector, RoleManager}

var capabilities = map[Capability][]Role{
	CapViewAllTasks:        adminTiers,
	CapViewAllMeetings:     adminTiers,
	CapDeleteAnyTask:       adminTiers,
	CapManageTasks:         managerOrAbove,
	CapManageNotifications: managerOrAbove,
	CapAssignAnyone:        {RoleDirector, RoleManagingDirector},
}

func (r Role) Can(c Capability) bool {
	return slices.Contains(capabilities[c], r)
}

type StatsType string

const (
	StatsPersonal StatsType = "personal"
	StatsAssigned StatsType = "assigned"
	StatsCreated  StatsType = "created"
	StatsAll      StatsType = "all"
)

func (t StatsType) Valid() bool {
	switch t {
	case StatsPersonal, StatsAssigned, StatsCreated, StatsAll:
		return true
	}
	return false
}

// PerAssignee reports whether rows of this type are (task, user) pairs
// rather than unique tasks.
func (t StatsType) PerAssignee() bool {
	return t == StatsPersonal || t == StatsAssigned
}

var allStatsTypes = []StatsType{StatsAssigned, StatsPersonal, StatsCreated, StatsAll}

var ownStatsTypes = []StatsType{StatsPersonal, StatsAssigned, StatsCreated}

var statsAccess = map[Role][]StatsType{
	RoleSuperAdmin:       allStatsTypes,
	RoleDirector:         allStatsTypes,
	RoleManagingDirector: allStatsTypes,
	RoleManager:          ownStatsTypes,
	RoleUser:             ownStatsTypes,
}

// AllowedStatsTypes returns the statistics views a role may request.
// Unknown roles get the assigned view only.
func (r Role) AllowedStatsTypes() []StatsType {
	if allowed, ok := statsAccess[r]; ok {
		return allowed
	}
	return []StatsType{StatsAssigned}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID    int64
	Email string
	Role  Role
	Level int
}

func (a Actor) Can(c Capability) bool {
	return a.Role.Can(c)
}
