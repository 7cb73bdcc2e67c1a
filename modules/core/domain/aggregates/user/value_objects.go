package user

import (
	"strings"

	"github.com/google/uuid"
)

// Role is a grant inside a tenant. The set is fixed; unknown names are
// rejected at the boundary.
type Role string

const (
	RoleTeamLead        Role = "TeamLead"
	RoleProjectManager  Role = "ProjectManager"
	RoleResourceManager Role = "ResourceManager"
	RoleTenantAdmin     Role = "TenantAdmin"
	RoleSalesRep        Role = "SalesRep"
	RoleViewer          Role = "Viewer"
)

var knownRoles = map[Role]struct{}{
	RoleTeamLead:        {},
	RoleProjectManager:  {},
	RoleResourceManager: {},
	RoleTenantAdmin:     {},
	RoleSalesRep:        {},
	RoleViewer:          {},
}

func ParseRole(v string) (Role, bool) {
	r := Role(strings.TrimSpace(v))
	_, ok := knownRoles[r]
	return r, ok
}

func RoleNames(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// Membership binds a user to a tenant with a role set. It is a valid
// access grant only while both the membership and the owning user are
// active.
type Membership struct {
	id       uuid.UUID
	userID   uuid.UUID
	tenantID uuid.UUID
	roles    []Role
	isActive bool
}

func NewMembership(userID, tenantID uuid.UUID, roles []Role) Membership {
	return Membership{
		userID:   userID,
		tenantID: tenantID,
		roles:    roles,
		isActive: true,
	}
}

func HydrateMembership(id, userID, tenantID uuid.UUID, roles []Role, isActive bool) Membership {
	return Membership{
		id:       id,
		userID:   userID,
		tenantID: tenantID,
		roles:    roles,
		isActive: isActive,
	}
}

func (m Membership) ID() uuid.UUID       { return m.id }
func (m Membership) UserID() uuid.UUID   { return m.userID }
func (m Membership) TenantID() uuid.UUID { return m.tenantID }
func (m Membership) Roles() []Role       { return m.roles }
func (m Membership) IsActive() bool      { return m.isActive }
func (m Membership) IsZero() bool        { return m.id == uuid.Nil && m.userID == uuid.Nil }

// HasAnyRole reports whether the membership's role set intersects the
// required set. An empty required set matches any membership.
func (m Membership) HasAnyRole(required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, have := range m.roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
