package persistence

import (
	"github.com/planora/planora/modules/core/domain/aggregates/user"
	"github.com/planora/planora/modules/core/domain/entities/tenant"
	"github.com/planora/planora/modules/core/domain/entities/upload"
	"github.com/planora/planora/modules/core/infrastructure/persistence/models"
)

func toDomainUser(m models.User, memberships []user.Membership) user.User {
	return user.Hydrate(
		m.ID,
		m.Email,
		m.ExternalID,
		m.FirstName,
		m.LastName,
		m.IsActive,
		m.IsSystemAdmin,
		m.DeactivatedAt,
		m.DeactivatedBy,
		memberships,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainMembership(m models.TenantMembership) user.Membership {
	roles := make([]user.Role, 0, len(m.Roles))
	for _, r := range m.Roles {
		// Unknown role names in the store are preserved as-is; the
		// policy simply never matches them.
		roles = append(roles, user.Role(r))
	}
	return user.HydrateMembership(m.ID, m.UserID, m.TenantID, roles, m.IsActive)
}

func toDomainTenant(m models.Tenant) tenant.Tenant {
	return tenant.Hydrate(m.ID, m.Name, m.IsActive, m.CreatedAt, m.UpdatedAt)
}

func toDomainUpload(m models.Upload) upload.Upload {
	return upload.Hydrate(m.ID, m.TenantID, m.Hash, m.Path, m.Name, m.Size, m.Mimetype, m.CreatedAt)
}
