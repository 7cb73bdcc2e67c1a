package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/planora/planora/modules/core/domain/entities/tenant"
)

type TenantService struct {
	repo tenant.Repository
}

func NewTenantService(repo tenant.Repository) *TenantService {
	return &TenantService{repo: repo}
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (tenant.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TenantService) GetAll(ctx context.Context) ([]tenant.Tenant, error) {
	return s.repo.GetAll(ctx)
}

func (s *TenantService) Create(ctx context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	return s.repo.Create(ctx, t)
}
