package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora/modules/core/domain/entities/tenant"
)

type mockTenantRepo struct {
	tenants map[uuid.UUID]tenant.Tenant
}

func newMockTenantRepo(tenants ...tenant.Tenant) *mockTenantRepo {
	m := &mockTenantRepo{tenants: map[uuid.UUID]tenant.Tenant{}}
	for _, t := range tenants {
		m.tenants[t.ID()] = t
	}
	return m
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (tenant.Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return tenant.Tenant{}, tenant.ErrNotFound
	}
	return t, nil
}

func (m *mockTenantRepo) GetAll(ctx context.Context) ([]tenant.Tenant, error) {
	out := make([]tenant.Tenant, 0, len(m.tenants))
	for _, t := range m.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTenantRepo) Create(ctx context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	created := tenant.Hydrate(uuid.New(), t.Name(), t.IsActive(), time.Now(), time.Now())
	m.tenants[created.ID()] = created
	return created, nil
}

func TestTenantService_GetByID(t *testing.T) {
	existing := tenant.Hydrate(uuid.New(), "Acme", true, time.Now(), time.Now())
	svc := NewTenantService(newMockTenantRepo(existing))

	found, err := svc.GetByID(testContext(), existing.ID())
	require.NoError(t, err)
	require.Equal(t, "Acme", found.Name())

	_, err = svc.GetByID(testContext(), uuid.New())
	require.ErrorIs(t, err, tenant.ErrNotFound)
}

func TestTenantService_GetAll(t *testing.T) {
	svc := NewTenantService(newMockTenantRepo(
		tenant.Hydrate(uuid.New(), "Acme", true, time.Now(), time.Now()),
		tenant.Hydrate(uuid.New(), "Globex", true, time.Now(), time.Now()),
	))

	all, err := svc.GetAll(testContext())
	require.NoError(t, err)
	require.Len(t, all, 2)
}
