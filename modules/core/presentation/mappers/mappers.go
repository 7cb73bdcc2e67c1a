package mappers

import (
	"github.com/planora/planora/modules/core/domain/aggregates/user"
	"github.com/planora/planora/modules/core/domain/entities/tenant"
	"github.com/planora/planora/modules/core/domain/entities/upload"
	"github.com/planora/planora/modules/core/presentation/viewmodels"
)

func MembershipToViewModel(m user.Membership) viewmodels.Membership {
	return viewmodels.Membership{
		ID:       m.ID().String(),
		TenantID: m.TenantID().String(),
		Roles:    user.RoleNames(m.Roles()),
		IsActive: m.IsActive(),
	}
}

func UserToViewModel(u user.User) viewmodels.User {
	memberships := make([]viewmodels.Membership, 0, len(u.Memberships()))
	for _, m := range u.Memberships() {
		memberships = append(memberships, MembershipToViewModel(m))
	}
	vm := viewmodels.User{
		ID:            u.ID().String(),
		Email:         u.Email(),
		ExternalID:    u.ExternalID(),
		FirstName:     u.FirstName(),
		LastName:      u.LastName(),
		IsActive:      u.IsActive(),
		IsSystemAdmin: u.IsSystemAdmin(),
		DeactivatedAt: u.DeactivatedAt(),
		Memberships:   memberships,
		CreatedAt:     u.CreatedAt(),
		UpdatedAt:     u.UpdatedAt(),
	}
	if by := u.DeactivatedBy(); by != nil {
		s := by.String()
		vm.DeactivatedBy = &s
	}
	return vm
}

func UploadToViewModel(u upload.Upload) viewmodels.Upload {
	return viewmodels.Upload{
		ID:        u.ID().String(),
		Hash:      u.Hash(),
		Path:      u.Path(),
		Name:      u.Name(),
		Size:      u.Size(),
		Mimetype:  u.Mimetype(),
		CreatedAt: u.CreatedAt(),
	}
}

func TenantToViewModel(t tenant.Tenant) viewmodels.Tenant {
	return viewmodels.Tenant{
		ID:        t.ID().String(),
		Name:      t.Name(),
		CreatedAt: t.CreatedAt(),
	}
}
